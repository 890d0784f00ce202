// Package traversal implements the Traversal Engine: it walks a lexical
// Concept tree, asks the Pruner whether each node earns its own category,
// consults a ListCleaner before finalizing a leaf list, and assembles the
// resulting StructureNode tree under a node budget. Grounded on the original
// project's build_tree_recursive (primary-synset filtering, abstract-
// category blacklisting, flatten-vs-branch decision, and its "leaves that
// are too small get bubbled to the parent" compromise).
package traversal

import (
	"context"
	"sync"

	"taxonomyshaper/internal/lexical"
	"taxonomyshaper/internal/linter"
	"taxonomyshaper/internal/pruner"
	"taxonomyshaper/internal/taxonomy"
)

// orphanKey is the synthetic child name a category uses to hold leaf terms
// bubbled up from children too small to stand alone. The Shaper does not
// treat this name specially: its orphan-merge pass folds the bucket into the
// orphans label only when it holds fewer than MinLeafSize terms; otherwise
// it stays under this key.
const orphanKey = "_orphans"

// maxSkipPromotions bounds how many children expandSkipNodes will promote
// for one parent's list, guarding against a pathological cycle in the
// lexical graph turning elision into an unbounded expansion.
const maxSkipPromotions = 1000

// Engine walks a Concept tree into a StructureNode tree.
type Engine struct {
	Resolver          *lexical.Resolver
	Pruner            *pruner.Pruner
	Cleaner           linter.ListCleaner
	Collector         taxonomy.EventCollector
	WithGlosses       bool
	StrictFilter      bool
	BlacklistAbstract bool

	limitOnce sync.Once
}

// New creates an Engine. cleaner and collector may be nil (a nil cleaner
// skips semantic cleaning; a nil collector discards events).
func New(resolver *lexical.Resolver, p *pruner.Pruner, cleaner linter.ListCleaner, collector taxonomy.EventCollector) *Engine {
	if collector == nil {
		collector = taxonomy.NopCollector{}
	}
	return &Engine{
		Resolver:     resolver,
		Pruner:       p,
		Cleaner:      cleaner,
		Collector:    collector,
		WithGlosses:  true,
		StrictFilter: true,
	}
}

// Traverse builds a StructureNode tree rooted at concept, spending from
// budget as it creates nodes. Returns ok=false if this concept contributed
// nothing (filtered out by the primary-synset or blacklist checks).
func (e *Engine) Traverse(ctx context.Context, concept taxonomy.Concept, budget *taxonomy.Budget, cfg taxonomy.SmartConfig) (taxonomy.StructureNode, bool, error) {
	return e.traverse(ctx, concept, budget, cfg, true)
}

func (e *Engine) traverse(ctx context.Context, concept taxonomy.Concept, budget *taxonomy.Budget, cfg taxonomy.SmartConfig, isRoot bool) (taxonomy.StructureNode, bool, error) {
	name := concept.Name

	if e.BlacklistAbstract {
		if sense, ok := e.Resolver.SenseFromID(concept.ID); ok && e.Resolver.IsAbstractCategory(sense) {
			return taxonomy.StructureNode{}, false, nil
		}
	}
	if e.StrictFilter {
		if primary, ok := e.Resolver.PrimarySense(name); ok && primary.ID != concept.ID {
			return taxonomy.StructureNode{}, false, nil
		}
	}

	var instruction string
	if e.WithGlosses && concept.Gloss != nil {
		instruction = *concept.Gloss
	}

	if budget.Exhausted() {
		e.limitOnce.Do(func() {
			e.Collector.Collect(taxonomy.Event{Kind: taxonomy.EventLimitReached, Path: []string{name}})
		})
		node, err := e.finalizeLeaf(ctx, name, descendantTerms(concept), instruction)
		return node, true, err
	}

	childCfg := cfg.GetChildConfig(name, concept.ID)
	children := expandSkipNodes(concept.Children, childCfg)

	descendantCount := 0
	if sense, ok := e.Resolver.SenseFromID(concept.ID); ok {
		descendantCount = len(e.Resolver.Descendants(sense))
	}

	shouldFlatten := false
	if childCfg.Enabled {
		shouldFlatten = e.Pruner.ShouldFlatten(concept, descendantCount, len(children), isRoot, childCfg)
	}

	if shouldFlatten {
		e.Collector.Collect(taxonomy.Event{Kind: taxonomy.EventNodePruned, Path: []string{name}})
		terms := descendantTerms(concept)
		node, err := e.finalizeLeaf(ctx, name, terms, instruction)
		if err != nil {
			return taxonomy.StructureNode{}, false, err
		}
		budget.Spend(1)
		return node, true, nil
	}

	if len(children) == 0 {
		node, err := e.finalizeLeaf(ctx, name, []string{name}, instruction)
		if err != nil {
			return taxonomy.StructureNode{}, false, err
		}
		budget.Spend(1)
		return node, true, nil
	}

	category := taxonomy.NewCategory(name)
	hasValid := false
	for _, child := range children {
		childNode, ok, err := e.traverse(ctx, child, budget, childCfg, false)
		if err != nil {
			return taxonomy.StructureNode{}, false, err
		}
		if !ok {
			continue
		}
		hasValid = true

		if childNode.IsLeafList() {
			decision := e.Pruner.HandleSmallLeaves(childNode.Leaves, childCfg)
			if decision.Bubble != nil {
				e.Collector.Collect(taxonomy.Event{
					Kind:   taxonomy.EventOrphansBubbled,
					Path:   []string{name, childNode.Name},
					Fields: map[string]any{"count": len(decision.Bubble)},
				})
				bubbleInto(&category, decision.Bubble)
				continue
			}
		}
		category.Children[childNode.Name] = childNode
	}

	if !hasValid {
		return taxonomy.StructureNode{}, false, nil
	}
	if instruction != "" {
		category.Annotate(name, instruction)
	}
	budget.Spend(1)
	return category, true, nil
}

// finalizeLeaf runs semantic cleaning (if configured) over terms and
// assembles the resulting leaf-list node.
func (e *Engine) finalizeLeaf(ctx context.Context, name string, terms []string, instruction string) (taxonomy.StructureNode, error) {
	if len(terms) == 0 {
		terms = []string{name}
	}
	if e.Cleaner != nil {
		cleaned, err := e.Cleaner.Clean(ctx, terms)
		if err == nil && len(cleaned.Kept) > 0 {
			terms = cleaned.Kept
		}
	}
	node := taxonomy.NewLeafList(name, terms)
	if instruction != "" {
		node.Annotate(name, instruction)
	}
	return node, nil
}

// bubbleInto folds orphaned terms into a category's synthetic orphan
// bucket, appending to it if one already exists.
func bubbleInto(category *taxonomy.StructureNode, terms []string) {
	existing, ok := category.Children[orphanKey]
	if ok {
		existing.Leaves = append(existing.Leaves, terms...)
		category.Children[orphanKey] = existing
		return
	}
	category.Children[orphanKey] = taxonomy.NewLeafList(orphanKey, terms)
}

// expandSkipNodes replaces every skip-listed concept in children with its
// own children, breadth-first, so a skip-listed node never becomes a
// StructureNode of its own: its descendants are promoted into the caller's
// list instead. Bounded by maxSkipPromotions total promoted children, a
// guard against a cyclical lexical graph turning this into an unbounded
// expansion.
func expandSkipNodes(children []taxonomy.Concept, cfg taxonomy.SmartConfig) []taxonomy.Concept {
	if len(cfg.SkipNodes) == 0 {
		return children
	}

	queue := append([]taxonomy.Concept(nil), children...)
	var result []taxonomy.Concept
	promotions := 0
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		if promotions < maxSkipPromotions && cfg.IsSkipped(c.ID, c.Name) {
			promotions += len(c.Children)
			queue = append(queue, c.Children...)
			continue
		}
		result = append(result, c)
	}
	return result
}

// descendantTerms collects every leaf-level concept name under concept
// (concept itself, if it has no children).
func descendantTerms(concept taxonomy.Concept) []string {
	if len(concept.Children) == 0 {
		return []string{concept.Name}
	}
	var out []string
	var walk func(c taxonomy.Concept)
	walk = func(c taxonomy.Concept) {
		if len(c.Children) == 0 {
			out = append(out, c.Name)
			return
		}
		for _, child := range c.Children {
			walk(child)
		}
	}
	walk(concept)
	return out
}
