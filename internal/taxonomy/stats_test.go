package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildStatsFixture() StructureNode {
	root := NewCategory("Animals")
	dog := NewCategory("Dog")
	dog.Children["Small"] = NewLeafList("Small", []string{"corgi", "beagle"})
	dog.Children["Large"] = NewLeafList("Large", []string{"mastiff"})
	root.Children["Dog"] = dog
	root.Children["Cat"] = NewLeafList("Cat", []string{"siamese", "persian", "tabby", "maine coon"})
	return root
}

func TestComputeStats(t *testing.T) {
	s := ComputeStats(buildStatsFixture())

	assert.Equal(t, 2, s.MaxDepth)
	assert.Equal(t, 5, s.TotalNodes) // Animals, Dog, Small, Large, Cat
	assert.Equal(t, 7, s.TotalLeaves)
	assert.Equal(t, 3, s.LeafListCount)
	assert.ElementsMatch(t, []int{2, 2}, s.BranchingFactors)
	assert.ElementsMatch(t, []int{2, 1, 4}, s.LeafSizes)
}

func TestStats_AvgBranchingAndAvgLeafSize(t *testing.T) {
	empty := Stats{}
	assert.Equal(t, 0.0, empty.AvgBranching())
	assert.Equal(t, 0.0, empty.AvgLeafSize())

	s := Stats{BranchingFactors: []int{2, 4}, LeafSizes: []int{3, 5, 7}}
	assert.Equal(t, 3.0, s.AvgBranching())
	assert.InDelta(t, 5.0, s.AvgLeafSize(), 0.001)
}

func TestSuggestThresholds_FloorsApply(t *testing.T) {
	minDepth, minHyponyms, minLeafSize := SuggestThresholds(Stats{MaxDepth: 1, TotalLeaves: 10, BranchingFactors: []int{2}})
	assert.Equal(t, 2, minDepth, "min_depth floors at 2")
	assert.Equal(t, 50, minHyponyms, "min_hyponyms floors at 50")
	assert.Equal(t, 3, minLeafSize, "min_leaf_size floors at 3")
}

func TestSuggestThresholds_ScalesWithDeepLargeDataset(t *testing.T) {
	minDepth, minHyponyms, minLeafSize := SuggestThresholds(Stats{
		MaxDepth:         20,
		TotalLeaves:      1000,
		BranchingFactors: []int{50, 50},
	})
	assert.Equal(t, 4, minDepth, "min_depth caps at 4")
	assert.Equal(t, 50, minHyponyms, "1000/100 == 10, still below the 50 floor")
	assert.Equal(t, 10, minLeafSize, "avg branching 50 / 5 == 10")
}
