package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxonomyshaper/internal/taxonomy"
)

func findChild(c taxonomy.Concept, name string) *taxonomy.Concept {
	for i := range c.Children {
		if c.Children[i].Name == name {
			return &c.Children[i]
		}
	}
	return nil
}

func namesOf(chain []taxonomy.Concept) []string {
	names := make([]string, len(chain))
	for i, c := range chain {
		names[i] = c.Name
	}
	return names
}

func TestGraphSource_ConceptFor_UnknownTermFails(t *testing.T) {
	src := NewGraphSource(NewResolver(animalGraph()))
	_, ok := src.ConceptFor("unicorn")
	assert.False(t, ok)
}

func TestGraphSource_ConceptFor_BuildsFullTree(t *testing.T) {
	src := NewGraphSource(NewResolver(animalGraph()))
	root, ok := src.ConceptFor("animal")
	require.True(t, ok)

	assert.Equal(t, "animal", root.Name)
	assert.Equal(t, 0, root.Depth)
	assert.True(t, root.IsRoot())
	require.Len(t, root.Children, 2)
}

func TestGraphSource_ConceptFor_AssignsDepthAndAncestry(t *testing.T) {
	src := NewGraphSource(NewResolver(animalGraph()))
	root, ok := src.ConceptFor("animal")
	require.True(t, ok)

	dog := findChild(root, "dog")
	require.NotNil(t, dog)
	assert.Equal(t, 1, dog.Depth)
	require.Len(t, dog.AncestorPaths, 1)
	assert.Equal(t, []string{"animal"}, namesOf(dog.AncestorPaths[0]))

	retriever := findChild(*dog, "retriever")
	require.NotNil(t, retriever)
	assert.Equal(t, 2, retriever.Depth)
	assert.Equal(t, []string{"animal", "dog"}, namesOf(retriever.AncestorPaths[0]))
}

func TestGraphSource_ConceptFor_BreaksCyclesAlongAPath(t *testing.T) {
	cyclic := NewMapGraph([]Sense{
		{ID: "n1", Name: "a", Hyponyms: []string{"n2"}},
		{ID: "n2", Name: "b", Hyponyms: []string{"n1"}},
	})
	src := NewGraphSource(NewResolver(cyclic))

	root, ok := src.ConceptFor("a")
	require.True(t, ok)
	require.Len(t, root.Children, 1)

	b := root.Children[0]
	assert.Equal(t, "b", b.Name)
	// b's hyponym "a" would reintroduce the node already on this path, so it
	// must not recurse back into it.
	assert.Empty(t, b.Children)
}
