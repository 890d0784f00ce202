package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func animalGraph() *MapGraph {
	return NewMapGraph([]Sense{
		{ID: "n1", Name: "animal", Hyponyms: []string{"n2", "n3"}},
		{ID: "n2", Name: "dog", Hypernyms: []string{"n1"}, Hyponyms: []string{"n4", "n5"}},
		{ID: "n3", Name: "cat", Hypernyms: []string{"n1"}, Hyponyms: []string{"n6"}},
		{ID: "n4", Name: "retriever", Hypernyms: []string{"n2"}},
		{ID: "n5", Name: "terrier", Hypernyms: []string{"n2"}},
		{ID: "n6", Name: "tabby", Hypernyms: []string{"n3"}},
	})
}

func TestResolver_PrimarySenseIsMemoized(t *testing.T) {
	r := NewResolver(animalGraph())
	first, ok := r.PrimarySense("Dog")
	require.True(t, ok)
	assert.Equal(t, "n2", first.ID)

	second, ok := r.PrimarySense("dog")
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestResolver_PrimarySense_CachesMisses(t *testing.T) {
	r := NewResolver(animalGraph())
	_, ok := r.PrimarySense("unicorn")
	assert.False(t, ok)
	_, ok = r.PrimarySense("unicorn")
	assert.False(t, ok)
}

func TestResolver_IsAbstractCategory(t *testing.T) {
	r := NewResolver(animalGraph())
	assert.True(t, r.IsAbstractCategory(Sense{Name: "Entity"}))
	assert.True(t, r.IsAbstractCategory(Sense{Name: "group"}))
	assert.False(t, r.IsAbstractCategory(Sense{Name: "dog"}))
}

func TestResolver_Hypernym(t *testing.T) {
	r := NewResolver(animalGraph())
	dog, _ := r.PrimarySense("dog")
	parent, ok := r.Hypernym(dog)
	require.True(t, ok)
	assert.Equal(t, "animal", parent.Name)

	animal, _ := r.PrimarySense("animal")
	_, ok = r.Hypernym(animal)
	assert.False(t, ok)
}

func TestResolver_LCA(t *testing.T) {
	r := NewResolver(animalGraph())

	got := r.LCA([]string{"retriever", "terrier"})
	assert.Equal(t, "dog", got)

	got = r.LCA([]string{"retriever", "tabby"})
	assert.Equal(t, "animal", got)
}

func TestResolver_LCA_FewerThanTwoResolvedTermsReturnsEmpty(t *testing.T) {
	r := NewResolver(animalGraph())
	assert.Equal(t, "", r.LCA([]string{"retriever"}))
	assert.Equal(t, "", r.LCA([]string{"retriever", "nonexistent"}))
}

func TestResolver_LCA_BlacklistedAncestorReturnsEmpty(t *testing.T) {
	g := NewMapGraph([]Sense{
		{ID: "n1", Name: "entity", Hyponyms: []string{"n2", "n3"}},
		{ID: "n2", Name: "dog", Hypernyms: []string{"n1"}},
		{ID: "n3", Name: "rock", Hypernyms: []string{"n1"}},
	})
	r := NewResolver(g)
	assert.Equal(t, "", r.LCA([]string{"dog", "rock"}), "entity is blacklisted as too generic")
}

func TestResolver_IsAncestorSense(t *testing.T) {
	r := NewResolver(animalGraph())
	dog, _ := r.PrimarySense("dog")
	cat, _ := r.PrimarySense("cat")
	retriever, _ := r.PrimarySense("retriever")
	animal, _ := r.PrimarySense("animal")

	assert.True(t, r.IsAncestorSense(dog, retriever), "dog is retriever's immediate parent")
	assert.True(t, r.IsAncestorSense(animal, retriever), "animal subsumes retriever transitively")
	assert.True(t, r.IsAncestorSense(retriever, retriever), "a sense is its own ancestor")
	assert.False(t, r.IsAncestorSense(cat, retriever), "cat is not on retriever's ancestor chain")
}

func TestResolver_LCASense_MatchesLCAName(t *testing.T) {
	r := NewResolver(animalGraph())
	sense, ok := r.LCASense([]string{"retriever", "terrier"})
	require.True(t, ok)
	assert.Equal(t, "dog", sense.Name)
}

func TestResolver_Descendants(t *testing.T) {
	r := NewResolver(animalGraph())
	animal, _ := r.PrimarySense("animal")
	got := r.Descendants(animal)
	assert.Equal(t, []string{"cat", "dog", "retriever", "tabby", "terrier"}, got)
}

func TestResolver_Descendants_LeafHasNone(t *testing.T) {
	r := NewResolver(animalGraph())
	retriever, _ := r.PrimarySense("retriever")
	assert.Empty(t, r.Descendants(retriever))
}

func TestResolver_Descendants_Memoized(t *testing.T) {
	r := NewResolver(animalGraph())
	dog, _ := r.PrimarySense("dog")
	first := r.Descendants(dog)
	second := r.Descendants(dog)
	assert.Equal(t, first, second)
}
