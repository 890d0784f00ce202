// Package pruner implements the Pruner: the significance heuristics that
// decide whether a concept earns its own category, and the small-leaf-list
// handling that either bubbles a too-small list up to its parent or leaves
// it alone. Grounded line-for-line on the original project's
// is_synset_significant / should_prune_node / handle_small_leaves.
package pruner

import (
	"taxonomyshaper/internal/taxonomy"
)

// Pruner decides, per-node, whether a concept is significant enough to keep
// as its own category, and what to do with undersized leaf lists.
type Pruner struct{}

// New creates a Pruner. It holds no state; every decision takes the
// SmartConfig in effect for that node so callers can use
// SmartConfig.GetChildConfig's per-subtree overrides.
func New() *Pruner { return &Pruner{} }

// IsSignificant reports whether a concept is fundamental enough (shallow in
// the lexical hierarchy) or broad enough (many descendants) to justify its
// own category, rather than being flattened into its parent.
func (Pruner) IsSignificant(concept taxonomy.Concept, descendantCount int, cfg taxonomy.SmartConfig) bool {
	if !cfg.Enabled {
		return false
	}
	if concept.Depth <= cfg.MinDepth {
		return true
	}
	if descendantCount >= cfg.MinHyponyms {
		return true
	}
	return false
}

// ShouldFlatten reports whether a node should be flattened into its parent
// rather than kept as its own category. Roots are never flattened. A
// skip-listed node is always flattened; the Traversal Engine is responsible
// for splicing its children into its parent's list instead of nesting them
// under it. A node with at most one child is always flattened (a
// single-child chain adds depth without adding organization). Otherwise a
// node is flattened exactly when it fails the significance check.
func (p Pruner) ShouldFlatten(concept taxonomy.Concept, descendantCount, childCount int, isRoot bool, cfg taxonomy.SmartConfig) bool {
	if !cfg.Enabled {
		return false
	}
	if isRoot {
		return false
	}
	if cfg.IsSkipped(concept.ID, concept.Name) {
		return true
	}
	if childCount <= 1 {
		return true
	}
	return !p.IsSignificant(concept, descendantCount, cfg)
}

// LeafDecision is the result of handling a leaf list against MinLeafSize.
type LeafDecision struct {
	// Keep is the leaf list to keep at this node, nil if it should bubble
	// up to the parent instead.
	Keep []string
	// Bubble is the terms that should be reattached to the parent's leaf
	// list because this node's own list was too small to stand alone.
	Bubble []string
}

// HandleSmallLeaves decides what to do with a leaf list that may be smaller
// than MinLeafSize: bubble it up to the parent when MergeOrphans is set, or
// leave it as a small standalone list otherwise.
func (Pruner) HandleSmallLeaves(leaves []string, cfg taxonomy.SmartConfig) LeafDecision {
	if !cfg.Enabled {
		return LeafDecision{Keep: leaves}
	}
	if len(leaves) < cfg.MinLeafSize {
		if cfg.MergeOrphans {
			return LeafDecision{Bubble: leaves}
		}
		return LeafDecision{Keep: leaves}
	}
	return LeafDecision{Keep: leaves}
}
