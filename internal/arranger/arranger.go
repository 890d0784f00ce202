// Package arranger implements the Arranger: when a leaf list has no lexical
// hierarchy to fall back on, it groups the list's terms by embedding
// similarity into named sub-categories. Grounded line-for-line on the
// original project's arrange_list / _arrange_single_pass / arrange_hierarchy,
// including its two-pass leftover recovery.
package arranger

import (
	"context"
	"fmt"

	"taxonomyshaper/internal/cache"
	"taxonomyshaper/internal/clusterer"
	"taxonomyshaper/internal/namer"
	"taxonomyshaper/internal/reduce"
	"taxonomyshaper/internal/taxonomy"
)

// Config bounds one arrangement pass. Field names mirror the original
// project's arrange_list keyword arguments.
type Config struct {
	Neighbors      int
	MinDist        float64
	Components     int
	MinClusterSize int
	MinSamples     int
	SelectionMethod string
	Threshold      float64 // minimum mean membership probability to keep a cluster

	// RecoveryLeftoverThreshold is how many leftover (noise) terms trigger
	// a second, finer-grained clustering pass over them. The original
	// project used 20.
	RecoveryLeftoverThreshold int
	// RecoveryMinClusterSize is the MinClusterSize (and MinSamples) the
	// recovery pass uses. Recovery runs only when the first pass's
	// MinClusterSize is strictly larger (no point re-clustering leftovers
	// from an already-minimal pass).
	RecoveryMinClusterSize int

	// MaxDepth bounds ArrangeHierarchy's recursion into oversized clusters.
	MaxDepth int
}

// DefaultConfig returns the original project's defaults.
func DefaultConfig() Config {
	return Config{
		Neighbors:                 15,
		MinDist:                   0.1,
		Components:                5,
		MinClusterSize:            5,
		MinSamples:                5,
		SelectionMethod:           clusterer.SelectionEOM,
		Threshold:                 0.1,
		RecoveryLeftoverThreshold: 20,
		RecoveryMinClusterSize:    2,
		MaxDepth:                  2,
	}
}

// Arranger wires the embedding cache, dimensionality reducer, density
// clusterer, and cluster namer together into the arrange pipeline.
type Arranger struct {
	Embeddings *cache.EmbeddingCache
	UMAP       *cache.UMAPCache
	Reducer    reduce.Reducer
	Clusterer  clusterer.Clusterer
	Collector  taxonomy.EventCollector
}

// New creates an Arranger. collector may be nil, which discards events.
func New(embeddings *cache.EmbeddingCache, umap *cache.UMAPCache, reducer reduce.Reducer, c clusterer.Clusterer, collector taxonomy.EventCollector) *Arranger {
	if collector == nil {
		collector = taxonomy.NopCollector{}
	}
	return &Arranger{Embeddings: embeddings, UMAP: umap, Reducer: reducer, Clusterer: c, Collector: collector}
}

// termCluster is one discovered group before naming.
type termCluster struct {
	terms         []string
	probabilities []float64
	rows          [][]float64 // reduced-space rows, row-aligned with terms
}

// ArrangeList groups terms into named sub-categories and returns them as a
// single StructureNode category whose children are the discovered clusters
// (each a leaf list) plus, if any terms never clustered, a final
// "Miscellaneous" leaf list. Returns a plain leaf list unchanged if
// clustering finds no real structure.
func (a *Arranger) ArrangeList(ctx context.Context, name string, terms []string, cfg Config) (taxonomy.StructureNode, error) {
	clusters, leftovers, err := a.arrangeSinglePass(ctx, terms, cfg)
	if err != nil {
		return taxonomy.StructureNode{}, err
	}

	if len(leftovers) > cfg.RecoveryLeftoverThreshold && cfg.MinClusterSize > cfg.RecoveryMinClusterSize {
		recoveryCfg := cfg
		recoveryCfg.MinClusterSize = cfg.RecoveryMinClusterSize
		recoveryCfg.MinSamples = cfg.RecoveryMinClusterSize
		recoveryCfg.Threshold = maxFloat(0.15, cfg.Threshold*1.5)
		recoveryCfg.SelectionMethod = clusterer.SelectionLeaf

		recovered, stillLeft, err := a.arrangeSinglePass(ctx, leftovers, recoveryCfg)
		if err != nil {
			return taxonomy.StructureNode{}, err
		}
		clusters = append(clusters, recovered...)
		leftovers = stillLeft
	}

	if len(clusters) == 0 {
		return taxonomy.NewLeafList(name, terms), nil
	}

	corpus := make([][]string, 0, len(clusters)+1)
	for _, c := range clusters {
		corpus = append(corpus, c.terms)
	}
	if len(leftovers) > 0 {
		corpus = append(corpus, leftovers)
	}

	namerInst := namer.New(nil, corpus)
	node := taxonomy.NewCategory(name)
	for _, c := range clusters {
		named := namerInst.Name(c.terms, c.rows).Name
		child := taxonomy.NewLeafList(named, c.terms)
		node.Children[named] = child
	}
	if len(leftovers) > 0 {
		node.Children["Miscellaneous"] = taxonomy.NewLeafList("Miscellaneous", leftovers)
	}

	a.Collector.Collect(taxonomy.Event{
		Kind: taxonomy.EventClusterNamed,
		Path: []string{name},
		Fields: map[string]any{
			"clusters":  len(clusters),
			"leftovers": len(leftovers),
		},
	})

	return node, nil
}

// ArrangeHierarchy recursively arranges a term list, descending into any
// resulting sub-category whose leaf list is still large enough to be worth
// splitting further, up to cfg.MaxDepth.
func (a *Arranger) ArrangeHierarchy(ctx context.Context, name string, terms []string, cfg Config, depth int) (taxonomy.StructureNode, error) {
	node, err := a.ArrangeList(ctx, name, terms, cfg)
	if err != nil {
		return taxonomy.StructureNode{}, err
	}
	if depth >= cfg.MaxDepth || node.IsLeafList() {
		return node, nil
	}

	for childName, child := range node.Children {
		if !child.IsLeafList() || len(child.Leaves) < cfg.MinClusterSize*2 {
			continue
		}
		rearranged, err := a.ArrangeHierarchy(ctx, childName, child.Leaves, cfg, depth+1)
		if err != nil {
			return taxonomy.StructureNode{}, err
		}
		node.Children[childName] = rearranged
	}
	return node, nil
}

// arrangeSinglePass embeds, reduces, and clusters terms once, filtering out
// clusters whose mean membership probability falls below threshold (those
// members rejoin the leftovers). Mirrors _arrange_single_pass.
func (a *Arranger) arrangeSinglePass(ctx context.Context, terms []string, cfg Config) ([]termCluster, []string, error) {
	if len(terms) < cfg.MinClusterSize+1 {
		return nil, terms, nil
	}

	vecs, err := a.Embeddings.EmbeddingsFor(ctx, terms)
	if err != nil {
		return nil, nil, fmt.Errorf("embed terms to arrange: %w", err)
	}

	rows := make([][]float64, len(vecs))
	for i, v := range vecs {
		row := make([]float64, len(v))
		for j, f := range v {
			row[j] = float64(f)
		}
		rows[i] = row
	}

	reduced, err := a.reduceWithCache(rows, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("reduce terms to arrange: %w", err)
	}

	result, err := a.Clusterer.Cluster(reduced, clusterer.Options{
		MinClusterSize:  cfg.MinClusterSize,
		MinSamples:      cfg.MinSamples,
		SelectionMethod: cfg.SelectionMethod,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("cluster terms to arrange: %w", err)
	}

	byLabel := map[int]*termCluster{}
	var leftovers []string
	for i, label := range result.Labels {
		if label == -1 {
			leftovers = append(leftovers, terms[i])
			continue
		}
		c, ok := byLabel[label]
		if !ok {
			c = &termCluster{}
			byLabel[label] = c
		}
		c.terms = append(c.terms, terms[i])
		c.probabilities = append(c.probabilities, result.Probabilities[i])
		c.rows = append(c.rows, reduced[i])
	}

	threshold := cfg.Threshold
	var clusters []termCluster
	for _, c := range byLabel {
		if meanProbability(c.probabilities) >= threshold {
			clusters = append(clusters, *c)
		} else {
			leftovers = append(leftovers, c.terms...)
		}
	}

	return clusters, leftovers, nil
}

func (a *Arranger) reduceWithCache(rows [][]float64, cfg Config) ([][]float64, error) {
	if a.UMAP == nil {
		return a.Reducer.Reduce(rows, cfg.Components)
	}

	key := cache.UMAPKey{
		InputHash:  cache.HashMatrix(rows),
		Neighbors:  cfg.Neighbors,
		MinDist:    cfg.MinDist,
		Components: cfg.Components,
	}
	if cached, ok := a.UMAP.Get(key); ok {
		a.Collector.Collect(taxonomy.Event{Kind: taxonomy.EventCacheHit, Fields: map[string]any{"cache": "umap"}})
		return cached, nil
	}
	a.Collector.Collect(taxonomy.Event{Kind: taxonomy.EventCacheMiss, Fields: map[string]any{"cache": "umap"}})

	reduced, err := a.Reducer.Reduce(rows, cfg.Components)
	if err != nil {
		return nil, err
	}
	a.UMAP.Put(key, reduced)
	return reduced, nil
}

func meanProbability(probs []float64) float64 {
	if len(probs) == 0 {
		return 0
	}
	var sum float64
	for _, p := range probs {
		sum += p
	}
	return sum / float64(len(probs))
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
