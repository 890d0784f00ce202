package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFixtureGraph_ParsesAndResolves(t *testing.T) {
	g, err := NewFixtureGraph()
	require.NoError(t, err)

	dog, ok := g.PrimarySense("dog")
	require.True(t, ok)
	assert.Equal(t, "n02084071", dog.ID)
	assert.NotEmpty(t, dog.Gloss)
	assert.Contains(t, dog.Hyponyms, "n02085374")
}

func TestNewFixtureGraph_ResolverCanWalkDescendants(t *testing.T) {
	g, err := NewFixtureGraph()
	require.NoError(t, err)
	r := NewResolver(g)

	animal, ok := r.PrimarySense("animal")
	require.True(t, ok)

	descendants := r.Descendants(animal)
	assert.Contains(t, descendants, "dog")
	assert.Contains(t, descendants, "retriever")
	assert.Contains(t, descendants, "zebra")
}

func TestNewFixtureGraph_LCAFindsSharedHypernym(t *testing.T) {
	g, err := NewFixtureGraph()
	require.NoError(t, err)
	r := NewResolver(g)

	got := r.LCA([]string{"retriever", "terrier"})
	assert.Equal(t, "dog", got)
}
