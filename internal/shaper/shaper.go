// Package shaper implements the Shaper: four ordered post-processing passes
// over a finished StructureNode tree that enforce minimum leaf size, remove
// parent/child name tautologies, collapse single-child chains, and
// normalize casing. Grounded line-for-line on the original project's
// ConstraintShaper (_merge_orphans, _prune_tautologies, _flatten_singles,
// _normalize_casing), adapted from its CommentedMap/list dual representation
// to StructureNode's Kind-tagged union.
package shaper

import (
	"fmt"
	"sort"
	"strings"

	"taxonomyshaper/internal/namer"
	"taxonomyshaper/internal/taxonomy"
)

// Config controls which passes run and their thresholds.
type Config struct {
	MinLeafSize    int
	FlattenSingles bool
	// PreserveRoots, if true, never flattens the outermost single-child
	// wrapper even when FlattenSingles is set; only its value is
	// recursively flattened.
	PreserveRoots bool
	// OrphansLabel names the bucket small sibling leaf lists merge into.
	// Defaults to "Other".
	OrphansLabel string
}

// DefaultConfig mirrors the original project's ConstraintShaper.shape
// defaults.
func DefaultConfig() Config {
	return Config{MinLeafSize: 10, FlattenSingles: true, PreserveRoots: true, OrphansLabel: "Other"}
}

// Shaper runs the four shaping passes, in order, over a StructureNode tree.
type Shaper struct{}

// New creates a Shaper. It holds no state.
func New() *Shaper { return &Shaper{} }

// Shape runs merge-orphans, prune-tautologies, flatten-singles, and
// normalize-casing, in that order, returning the reshaped tree.
func (Shaper) Shape(root taxonomy.StructureNode, cfg Config) taxonomy.StructureNode {
	label := cfg.OrphansLabel
	if label == "" {
		label = "Other"
	}

	processed := mergeOrphans(root, cfg.MinLeafSize, label)
	processed = pruneTautologies(processed)

	if cfg.FlattenSingles {
		if cfg.PreserveRoots && processed.IsCategory() && len(processed.Children) == 1 {
			for k, v := range processed.Children {
				processed.Children[k] = flattenSingles(v, false)
			}
		} else {
			processed = flattenSingles(processed, true)
		}
	}

	return normalizeCasing(processed)
}

// --- pass 1: merge orphans ---------------------------------------------------

func mergeOrphans(node taxonomy.StructureNode, minSize int, orphansLabel string) taxonomy.StructureNode {
	if node.IsLeafList() {
		node.Leaves = sortedCopy(node.Leaves)
		return node
	}

	for k, v := range node.Children {
		node.Children[k] = mergeOrphans(v, minSize, orphansLabel)
	}

	var smallKeys []string
	var orphanItems []string
	var contextItems []string
	for k, v := range node.Children {
		if !v.IsLeafList() {
			continue
		}
		if len(v.Leaves) < minSize || isGenericBucket(k) {
			smallKeys = append(smallKeys, k)
			orphanItems = append(orphanItems, v.Leaves...)
		} else {
			contextItems = append(contextItems, v.Leaves...)
		}
	}
	if len(smallKeys) == 0 {
		return node
	}

	label := orphansLabel
	if isGenericLabel(label) {
		if keyword := contextualKeyword(orphanItems, contextItems); keyword != "" {
			label = fmt.Sprintf("%s (%s)", label, titleCase(keyword))
		}
	}

	smallKeys = removeString(smallKeys, label)
	if len(smallKeys) == 0 {
		return node
	}

	dest, ok := node.Children[label]
	if !ok {
		dest = taxonomy.NewLeafList(label, nil)
	}
	combined := append([]string{}, dest.Leaves...)
	for _, k := range smallKeys {
		combined = append(combined, node.Children[k].Leaves...)
		delete(node.Children, k)
	}
	dest.Leaves = dedupeFold(combined)
	node.Children[label] = dest

	return node
}

func isGenericBucket(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return lower == "other" || lower == "misc" ||
		strings.HasPrefix(lower, "other (") || strings.HasPrefix(lower, "misc (")
}

// isGenericLabel reports whether a name is exactly "other" or "misc",
// narrower than isGenericBucket: only a bare generic label is eligible for
// contextual renaming, not one that already carries a parenthetical.
func isGenericLabel(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return lower == "other" || lower == "misc"
}

// contextualKeyword picks the term most distinctive to orphanItems against
// contextItems (every non-small, non-generic sibling leaf list) via TF-IDF
// over the two as a two-document corpus, mirroring the original project's
// generate_contextual_label/extract_unique_keywords. A keyword must recur
// at least twice across orphanItems to be considered representative rather
// than a coincidental single match; returns "" otherwise.
func contextualKeyword(orphanItems, contextItems []string) string {
	if len(orphanItems) == 0 || len(contextItems) == 0 {
		return ""
	}

	idx := namer.NewTFIDFIndex([][]string{orphanItems, contextItems})
	keyword := idx.TopKeyword(orphanItems)
	if keyword == "" {
		return ""
	}

	joined := strings.ToLower(strings.Join(orphanItems, " "))
	if strings.Count(joined, strings.ToLower(keyword)) < 2 {
		return ""
	}
	return keyword
}

// --- pass 2: prune tautologies ----------------------------------------------

// pruneTautologies removes A -> A chains: a category whose sole matching
// child shares its (case-insensitive) name is collapsed into the parent; a
// category with a matching child plus siblings instead renames that child
// to "General <Name>" so its items aren't lost.
func pruneTautologies(node taxonomy.StructureNode) taxonomy.StructureNode {
	if node.IsLeafList() {
		return node
	}

	newChildren := map[string]taxonomy.StructureNode{}
	for k, v := range node.Children {
		v = pruneTautologies(v)

		if v.IsCategory() {
			norm := strings.ToLower(strings.TrimSpace(k))
			matchKey := ""
			for ck := range v.Children {
				if strings.ToLower(strings.TrimSpace(ck)) == norm {
					matchKey = ck
					break
				}
			}
			if matchKey != "" {
				childVal := v.Children[matchKey]
				if len(v.Children) == 1 {
					newChildren[k] = childVal
				} else {
					delete(v.Children, matchKey)
					v.Children["General "+k] = childVal
					newChildren[k] = v
				}
				continue
			}
		}
		newChildren[k] = v
	}
	node.Children = newChildren
	return node
}

// --- pass 3: flatten singles -------------------------------------------------

// flattenSingles collapses a category with exactly one child: a non-root
// category whose only child is itself a category is kept (the names
// differ, so the extra level is meaningful); whose only child is a generic
// leaf-list bucket ("misc"/"other") is promoted directly to that list;
// otherwise the wrapper is kept so a named leaf list doesn't lose its label.
func flattenSingles(node taxonomy.StructureNode, isRoot bool) taxonomy.StructureNode {
	if node.IsLeafList() {
		return node
	}

	newChildren := map[string]taxonomy.StructureNode{}
	for k, v := range node.Children {
		newChildren[k] = flattenSingles(v, false)
	}
	node.Children = newChildren

	if len(node.Children) != 1 || isRoot {
		return node
	}

	var key string
	var val taxonomy.StructureNode
	for k, v := range node.Children {
		key, val = k, v
	}

	if val.IsCategory() {
		return node
	}
	if lower := strings.ToLower(strings.TrimSpace(key)); lower == "misc" || lower == "other" {
		return val
	}
	return node
}

// --- pass 4: normalize casing -------------------------------------------------

// normalizeCasing title-cases category names (merging any resulting
// collisions) and lowercases, dedupes, and sorts leaf items.
func normalizeCasing(node taxonomy.StructureNode) taxonomy.StructureNode {
	if node.IsLeafList() {
		node.Leaves = dedupeFold(node.Leaves)
		return node
	}

	newChildren := map[string]taxonomy.StructureNode{}
	for k, v := range node.Children {
		titled := titleCase(k)
		normed := normalizeCasing(v)

		existing, collided := newChildren[titled]
		switch {
		case !collided:
			newChildren[titled] = normed
		case existing.IsLeafList() && normed.IsLeafList():
			existing.Leaves = dedupeFold(append(existing.Leaves, normed.Leaves...))
			newChildren[titled] = existing
		case existing.IsCategory() && normed.IsCategory():
			for ck, cv := range normed.Children {
				existing.Children[ck] = cv
			}
			newChildren[titled] = existing
		default:
			newChildren[titled] = normed
		}
	}
	node.Children = newChildren
	node.Name = titleCase(node.Name)
	return node
}

// --- helpers -----------------------------------------------------------------

func sortedCopy(items []string) []string {
	out := append([]string(nil), items...)
	sort.Strings(out)
	return out
}

// dedupeFold lowercases, deduplicates, and sorts a list of leaf terms.
func dedupeFold(items []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(items))
	for _, item := range items {
		lower := strings.ToLower(strings.TrimSpace(item))
		if lower == "" {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, lower)
	}
	sort.Strings(out)
	return out
}

func removeString(items []string, target string) []string {
	out := items[:0]
	for _, item := range items {
		if item != target {
			out = append(out, item)
		}
	}
	return out
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) == 0 {
			continue
		}
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
