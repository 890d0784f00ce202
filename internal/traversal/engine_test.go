package traversal

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxonomyshaper/internal/lexical"
	"taxonomyshaper/internal/linter"
	"taxonomyshaper/internal/pruner"
	"taxonomyshaper/internal/taxonomy"
)

// collectingCollector records every event it receives, safe for concurrent use.
type collectingCollector struct {
	mu     sync.Mutex
	events []taxonomy.Event
}

func (c *collectingCollector) Collect(e taxonomy.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *collectingCollector) countOf(kind taxonomy.EventKind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// buildAnimalGraph builds animal -> {dog -> {terrier, hound}, cat}.
func buildAnimalGraph() *lexical.MapGraph {
	return lexical.NewMapGraph([]lexical.Sense{
		{ID: "n1", Name: "animal", Hyponyms: []string{"n2", "n3"}},
		{ID: "n2", Name: "dog", Hypernyms: []string{"n1"}, Hyponyms: []string{"n4", "n5"}},
		{ID: "n3", Name: "cat", Hypernyms: []string{"n1"}},
		{ID: "n4", Name: "terrier", Hypernyms: []string{"n2"}},
		{ID: "n5", Name: "hound", Hypernyms: []string{"n2"}},
	})
}

func animalConceptTree() taxonomy.Concept {
	terrier := taxonomy.Concept{ID: "n4", Name: "terrier", Depth: 2}
	hound := taxonomy.Concept{ID: "n5", Name: "hound", Depth: 2}
	dog := taxonomy.Concept{ID: "n2", Name: "dog", Depth: 1, Children: []taxonomy.Concept{terrier, hound}}
	cat := taxonomy.Concept{ID: "n3", Name: "cat", Depth: 1}
	return taxonomy.Concept{ID: "n1", Name: "animal", Depth: 0, Children: []taxonomy.Concept{dog, cat}}
}

func permissiveConfig() taxonomy.SmartConfig {
	return taxonomy.SmartConfig{Enabled: true, MinDepth: 0, MinHyponyms: 2, MinLeafSize: 0, MergeOrphans: true, CategoryOverrides: map[string]taxonomy.CategoryOverride{}}
}

func newTestEngine(resolver *lexical.Resolver, collector taxonomy.EventCollector) *Engine {
	return New(resolver, pruner.New(), linter.NopCleaner{}, collector)
}

func TestTraverse_BuildsCategoryTreeForSignificantNodes(t *testing.T) {
	resolver := lexical.NewResolver(buildAnimalGraph())
	collector := &collectingCollector{}
	engine := newTestEngine(resolver, collector)

	budget := taxonomy.NewBudget(100)
	node, ok, err := engine.Traverse(context.Background(), animalConceptTree(), budget, permissiveConfig())
	require.NoError(t, err)
	require.True(t, ok)

	require.True(t, node.IsCategory())
	assert.Equal(t, "animal", node.Name)
	require.Contains(t, node.Children, "dog")
	require.Contains(t, node.Children, "cat")

	dog := node.Children["dog"]
	require.True(t, dog.IsCategory(), "dog has 2 hyponyms >= MinHyponyms, so it should stay its own category")
	assert.Contains(t, dog.Children, "terrier")
	assert.Contains(t, dog.Children, "hound")

	cat := node.Children["cat"]
	assert.True(t, cat.IsLeafList(), "a childless concept finalizes as a leaf list of itself")
	assert.Equal(t, []string{"cat"}, cat.Leaves)
}

func TestTraverse_BudgetExhaustionFlattensAndFiresEventOnce(t *testing.T) {
	resolver := lexical.NewResolver(buildAnimalGraph())
	collector := &collectingCollector{}
	engine := newTestEngine(resolver, collector)

	// One spend's worth of budget: enough for exactly one leaf finalization
	// before the rest of the tree collapses under exhaustion.
	budget := taxonomy.NewBudget(1)
	node, ok, err := engine.Traverse(context.Background(), animalConceptTree(), budget, permissiveConfig())
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, node.IsCategory())

	assert.Equal(t, 1, collector.countOf(taxonomy.EventLimitReached), "the limit-reached event must fire exactly once across the whole run")
}

func TestTraverse_StrictFilterRejectsNonPrimarySynset(t *testing.T) {
	graph := lexical.NewMapGraph([]lexical.Sense{
		{ID: "n1", Name: "bank"},  // primary sense for "bank"
		{ID: "n2", Name: "bank"},  // shadowed secondary sense, same name
	})
	resolver := lexical.NewResolver(graph)
	collector := &collectingCollector{}
	engine := newTestEngine(resolver, collector)

	secondary := taxonomy.Concept{ID: "n2", Name: "bank", Depth: 0}
	budget := taxonomy.NewBudget(10)
	_, ok, err := engine.Traverse(context.Background(), secondary, budget, permissiveConfig())
	require.NoError(t, err)
	assert.False(t, ok, "a non-primary sense of a duplicated name must be filtered out")
}

func TestTraverse_BlacklistAbstractRejectsAbstractConcepts(t *testing.T) {
	graph := lexical.NewMapGraph([]lexical.Sense{
		{ID: "n1", Name: "entity"},
	})
	resolver := lexical.NewResolver(graph)
	engine := newTestEngine(resolver, &collectingCollector{})
	engine.BlacklistAbstract = true

	concept := taxonomy.Concept{ID: "n1", Name: "entity", Depth: 0}
	budget := taxonomy.NewBudget(10)
	_, ok, err := engine.Traverse(context.Background(), concept, budget, permissiveConfig())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTraverse_BubblesSmallLeafListsIntoOrphanBucket(t *testing.T) {
	resolver := lexical.NewResolver(buildAnimalGraph())
	collector := &collectingCollector{}
	engine := newTestEngine(resolver, collector)

	// MinLeafSize well above 1 means terrier/hound (single-item lists) bubble
	// into dog's synthetic orphan bucket instead of staying as their own
	// standalone categories.
	cfg := permissiveConfig()
	cfg.MinLeafSize = 5

	budget := taxonomy.NewBudget(100)
	node, ok, err := engine.Traverse(context.Background(), animalConceptTree(), budget, cfg)
	require.NoError(t, err)
	require.True(t, ok)

	dog := node.Children["dog"]
	require.True(t, dog.IsCategory())
	_, hasTerrier := dog.Children["terrier"]
	assert.False(t, hasTerrier)
	require.Contains(t, dog.Children, orphanKey)
	assert.ElementsMatch(t, []string{"terrier", "hound"}, dog.Children[orphanKey].Leaves)
	assert.Equal(t, 3, collector.countOf(taxonomy.EventOrphansBubbled), "terrier and hound bubble into dog; cat, also below MinLeafSize, bubbles into animal")
}
