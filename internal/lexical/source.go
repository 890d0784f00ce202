package lexical

import "taxonomyshaper/internal/taxonomy"

// GraphSource adapts a Graph into a concept source the Traversal Engine can
// walk: given a root term, it materializes a taxonomy.Concept tree by
// following hyponym edges. Dataset-specific concept sources (ImageNet, COCO,
// OpenImages loaders) are external collaborators outside this repo's scope;
// GraphSource exists so the pipeline has a concrete, in-tree adapter to run
// against.
type GraphSource struct {
	resolver *Resolver
}

// NewGraphSource wraps a Resolver as a concept source.
func NewGraphSource(resolver *Resolver) *GraphSource {
	return &GraphSource{resolver: resolver}
}

// ConceptFor builds the taxonomy.Concept tree rooted at the primary sense of
// rootTerm, descending through every hyponym reachable from it. Returns
// false if rootTerm has no known sense.
func (s *GraphSource) ConceptFor(rootTerm string) (taxonomy.Concept, bool) {
	root, ok := s.resolver.PrimarySense(rootTerm)
	if !ok {
		return taxonomy.Concept{}, false
	}
	seen := map[string]struct{}{}
	return s.build(root, nil, seen), true
}

func (s *GraphSource) build(sense Sense, ancestors []taxonomy.Concept, seen map[string]struct{}) taxonomy.Concept {
	var gloss *string
	if sense.Gloss != "" {
		g := sense.Gloss
		gloss = &g
	}

	c := taxonomy.Concept{
		ID:    sense.ID,
		Name:  sense.Name,
		Gloss: gloss,
		Depth: len(ancestors),
	}
	if len(ancestors) > 0 {
		c.AncestorPaths = [][]taxonomy.Concept{ancestors}
	}

	if _, cyclic := seen[sense.ID]; cyclic {
		return c
	}
	seen[sense.ID] = struct{}{}

	childAncestors := append(append([]taxonomy.Concept(nil), ancestors...), c)
	for _, childID := range sense.Hyponyms {
		if _, onPath := seen[childID]; onPath {
			continue
		}
		childSense, ok := s.resolver.SenseFromID(childID)
		if !ok {
			continue
		}
		c.Children = append(c.Children, s.build(childSense, childAncestors, seen))
	}
	delete(seen, sense.ID)

	return c
}
