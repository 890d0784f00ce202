package taxonomy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategoryAndNewLeafList(t *testing.T) {
	cat := NewCategory("Animals")
	assert.True(t, cat.IsCategory())
	assert.False(t, cat.IsLeafList())
	assert.NotNil(t, cat.Children)

	leaves := []string{"a", "b"}
	list := NewLeafList("Dog", leaves)
	assert.True(t, list.IsLeafList())
	assert.Equal(t, []string{"a", "b"}, list.Leaves)

	leaves[0] = "mutated"
	assert.Equal(t, "a", list.Leaves[0], "NewLeafList must copy its input slice")
}

func TestAnnotate(t *testing.T) {
	node := NewCategory("Animals")
	node.Annotate("Animals", "a broad taxonomic kingdom")
	require.NotNil(t, node.Annotations)
	assert.Equal(t, "a broad taxonomic kingdom", node.Annotations["Animals"])
}

func TestLeafCount(t *testing.T) {
	assert.Equal(t, 2, NewLeafList("x", []string{"a", "b"}).LeafCount())
	assert.Equal(t, 0, NewCategory("x").LeafCount())
}

func TestWalk_VisitsEveryNodeWithPath(t *testing.T) {
	root := NewCategory("root")
	root.Children["Dog"] = NewLeafList("Dog", []string{"poodle"})
	inner := NewCategory("Cat")
	inner.Children["Breed"] = NewLeafList("Breed", []string{"siamese"})
	root.Children["Cat"] = inner

	var paths [][]string
	err := root.Walk(func(path []string, n StructureNode) error {
		paths = append(paths, append([]string(nil), path...))
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, paths, 4, "root, Dog, Cat, Cat/Breed")
}

func TestWalk_PropagatesVisitError(t *testing.T) {
	root := NewCategory("root")
	root.Children["Dog"] = NewLeafList("Dog", []string{"poodle"})

	boom := errors.New("boom")
	err := root.Walk(func(path []string, n StructureNode) error {
		if n.Name == "Dog" {
			return boom
		}
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestNodeKind_String(t *testing.T) {
	assert.Equal(t, "category", KindCategory.String())
	assert.Equal(t, "leaf_list", KindLeafList.String())
	assert.Equal(t, "unknown", NodeKind(99).String())
}
