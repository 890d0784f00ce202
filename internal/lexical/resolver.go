package lexical

import (
	"strings"
	"sync"
)

// abstractCategories lists sense names WordNet-style lexical databases tend
// to root overly-broad subtrees under; a sense with one of these names is too
// generic to be useful as a learned category label. Grounded on the kept
// Python project's ABSTRACT_CATEGORIES set.
var abstractCategories = map[string]struct{}{
	"entity": {}, "abstraction": {}, "communication": {}, "measure": {},
	"attribute": {}, "state": {}, "event": {}, "act": {}, "group": {},
	"relation": {}, "possession": {}, "phenomenon": {},
}

// lcaBlacklist additionally excludes names that are valid, non-abstract
// senses but are still too generic to be worth presenting as a lowest common
// ancestor name. Grounded on the kept Python project's arranger BLACKLIST set.
var lcaBlacklist = map[string]struct{}{
	"entity": {}, "physical entity": {}, "abstraction": {}, "object": {},
	"whole": {}, "matter": {}, "metric unit": {}, "unit": {},
	"causal agent": {}, "variable": {}, "substance": {}, "group": {},
}

// Resolver answers the Cluster Namer's and Arranger's questions about a
// Graph: primary senses, lowest common ancestors, descendants, and glosses.
// It memoizes lookups since the same term is resolved repeatedly across
// clusters within a run.
type Resolver struct {
	graph Graph

	mu         sync.Mutex
	primary    map[string]senseLookup
	descendant map[string][]string
}

type senseLookup struct {
	sense Sense
	ok    bool
}

// NewResolver wraps a Graph with memoized convenience queries.
func NewResolver(graph Graph) *Resolver {
	return &Resolver{
		graph:      graph,
		primary:    map[string]senseLookup{},
		descendant: map[string][]string{},
	}
}

// PrimarySense returns the most common sense for a term, memoized.
func (r *Resolver) PrimarySense(term string) (Sense, bool) {
	key := strings.ToLower(strings.TrimSpace(term))

	r.mu.Lock()
	if cached, ok := r.primary[key]; ok {
		r.mu.Unlock()
		return cached.sense, cached.ok
	}
	r.mu.Unlock()

	sense, ok := r.graph.PrimarySense(key)

	r.mu.Lock()
	r.primary[key] = senseLookup{sense: sense, ok: ok}
	r.mu.Unlock()

	return sense, ok
}

// SenseFromID looks up a sense by its stable WNID-style identifier.
func (r *Resolver) SenseFromID(id string) (Sense, bool) {
	return r.graph.SenseByID(id)
}

// Gloss returns a sense's definition, or "" if it has none.
func (r *Resolver) Gloss(sense Sense) string {
	return sense.Gloss
}

// IsAbstractCategory reports whether a sense's name is one of the
// categories that are too broad to serve as a learned label.
func (r *Resolver) IsAbstractCategory(sense Sense) bool {
	_, abstract := abstractCategories[strings.ToLower(sense.Name)]
	return abstract
}

// hypernymOf walks up one level via the Graph.
func (r *Resolver) hypernymOf(s Sense) (Sense, bool) {
	if len(s.Hypernyms) == 0 {
		return Sense{}, false
	}
	return r.graph.SenseByID(s.Hypernyms[0])
}

// Hypernym returns a sense's immediate parent sense, used by the Cluster
// Namer's medoid-hypernym fallback.
func (r *Resolver) Hypernym(s Sense) (Sense, bool) {
	return r.hypernymOf(s)
}

// ancestorChain returns s and every ancestor reachable by always taking the
// first listed hypernym, root-most last.
func (r *Resolver) ancestorChain(s Sense) []Sense {
	chain := []Sense{s}
	seen := map[string]struct{}{s.ID: {}}
	cur := s
	for {
		parent, ok := r.hypernymOf(cur)
		if !ok {
			break
		}
		if _, dup := seen[parent.ID]; dup {
			break
		}
		seen[parent.ID] = struct{}{}
		chain = append(chain, parent)
		cur = parent
	}
	return chain
}

// LCA finds the lowest common ancestor name for a set of terms by resolving
// each to its primary sense and walking up the first hypernym chain until
// two senses share an ancestor. Returns "" if fewer than two terms resolve,
// no common ancestor exists, or the result is blacklisted as too generic.
func (r *Resolver) LCA(terms []string) string {
	sense, ok := r.LCASense(terms)
	if !ok {
		return ""
	}
	return sense.Name
}

// LCASense is LCA's sense-returning counterpart, used by callers that need
// to validate the candidate sense (e.g. against a cluster's medoid) rather
// than just its display name.
func (r *Resolver) LCASense(terms []string) (Sense, bool) {
	var senses []Sense
	for _, t := range terms {
		if s, ok := r.PrimarySense(t); ok {
			senses = append(senses, s)
		}
	}
	if len(senses) < 2 {
		return Sense{}, false
	}

	current := senses[0]
	for _, s := range senses[1:] {
		lca, ok := r.pairwiseLCA(current, s)
		if !ok {
			return Sense{}, false
		}
		current = lca
	}

	name := strings.ToLower(current.Name)
	if _, blacklisted := lcaBlacklist[name]; blacklisted {
		return Sense{}, false
	}
	if r.IsAbstractCategory(current) {
		return Sense{}, false
	}
	return current, true
}

// IsAncestorSense reports whether candidate is of, or a (non-strict)
// ancestor of, of's sense: that is, candidate lies on of's first-hypernym
// ancestor chain. Used to validate a lowest-common-ancestor candidate
// against a cluster's medoid sense before accepting it as the cluster name,
// rejecting an LCA that does not actually subsume the medoid.
func (r *Resolver) IsAncestorSense(candidate, of Sense) bool {
	if candidate.ID == of.ID {
		return true
	}
	lca, ok := r.pairwiseLCA(candidate, of)
	return ok && lca.ID == candidate.ID
}

// pairwiseLCA finds the lowest (most specific) sense common to both
// ancestor chains, preferring the one closest to both leaves.
func (r *Resolver) pairwiseLCA(a, b Sense) (Sense, bool) {
	chainA := r.ancestorChain(a)
	chainB := r.ancestorChain(b)

	indexB := map[string]int{}
	for i, s := range chainB {
		indexB[s.ID] = i
	}

	best := -1
	var bestSense Sense
	for i, s := range chainA {
		if j, ok := indexB[s.ID]; ok {
			if score := i + j; best == -1 || score < best {
				best = score
				bestSense = s
			}
		}
	}
	if best == -1 {
		return Sense{}, false
	}
	return bestSense, true
}

// Descendants returns every sense name reachable from sense by following
// Hyponyms transitively, sorted and deduplicated. Memoized per sense ID.
func (r *Resolver) Descendants(sense Sense) []string {
	r.mu.Lock()
	if cached, ok := r.descendant[sense.ID]; ok {
		r.mu.Unlock()
		return cached
	}
	r.mu.Unlock()

	seen := map[string]struct{}{}
	var walk func(s Sense)
	walk = func(s Sense) {
		for _, hypoID := range s.Hyponyms {
			hypo, ok := r.graph.SenseByID(hypoID)
			if !ok {
				continue
			}
			if _, dup := seen[hypo.Name]; dup {
				continue
			}
			seen[hypo.Name] = struct{}{}
			walk(hypo)
		}
	}
	walk(sense)

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sortStrings(names)

	r.mu.Lock()
	r.descendant[sense.ID] = names
	r.mu.Unlock()

	return names
}

func sortStrings(xs []string) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}
