// Package taxonomy holds the core value types shared by every stage of the
// taxonomy-shaping pipeline: concepts sourced from a lexical resolver,
// the structure tree the pipeline builds and reshapes, clusters produced by
// the arranger, and the configuration and event types that thread through
// all of it.
package taxonomy

import "strings"

// Term is a single label from a flat or shallow vocabulary, normalized for
// comparison and hashing.
type Term string

// NormalizeTerm lowercases and trims a raw label so that equivalent terms
// compare equal regardless of source formatting.
func NormalizeTerm(raw string) Term {
	return Term(strings.TrimSpace(strings.ToLower(raw)))
}

// String returns the term's normalized text.
func (t Term) String() string { return string(t) }

// Concept is an immutable node in the lexical hierarchy: a sense with an
// optional gloss, zero or more children, and the set of ancestor paths that
// reach it from a root (a concept may be reachable by more than one path in
// a DAG-shaped lexical graph).
type Concept struct {
	// ID is the lexical resolver's stable identifier for this sense
	// (e.g. a WordNet-style WNID).
	ID string

	// Name is the concept's canonical display label.
	Name string

	// Gloss is the concept's short definition, if the lexical resolver has one.
	Gloss *string

	// Children are concepts directly subordinate to this one in the lexical
	// hierarchy (hyponyms).
	Children []Concept

	// AncestorPaths lists every root-to-parent path that reaches this
	// concept, oldest ancestor first. Most concepts have exactly one.
	AncestorPaths [][]Concept

	// Depth is this concept's distance from the nearest root along the
	// shortest of its ancestor paths.
	Depth int
}

// IsRoot reports whether the concept has no recorded ancestor path.
func (c Concept) IsRoot() bool { return len(c.AncestorPaths) == 0 }

// ShortestAncestorPath returns the ancestor path that minimizes depth, or nil
// if the concept is a root.
func (c Concept) ShortestAncestorPath() []Concept {
	if len(c.AncestorPaths) == 0 {
		return nil
	}
	shortest := c.AncestorPaths[0]
	for _, p := range c.AncestorPaths[1:] {
		if len(p) < len(shortest) {
			shortest = p
		}
	}
	return shortest
}
