package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"taxonomyshaper/internal/arranger"
	"taxonomyshaper/internal/cache"
	"taxonomyshaper/internal/clusterer"
	"taxonomyshaper/internal/config"
	"taxonomyshaper/internal/embedding"
	"taxonomyshaper/internal/lexical"
	"taxonomyshaper/internal/linter"
	"taxonomyshaper/internal/pruner"
	"taxonomyshaper/internal/reduce"
	"taxonomyshaper/internal/shaper"
	"taxonomyshaper/internal/taxonomy"
	"taxonomyshaper/internal/telemetry"
	"taxonomyshaper/internal/traversal"
)

// pipeline bundles every collaborator a generation run needs, built once
// and reused across however many root terms one invocation processes.
type pipeline struct {
	resolver  *lexical.Resolver
	source    *lexical.GraphSource
	embedCache *cache.EmbeddingCache
	umapCache *cache.UMAPCache
	arranger  *arranger.Arranger
	pruner    *pruner.Pruner
	engine    *traversal.Engine
	shaper    *shaper.Shaper
	collector *telemetry.ZapCollector
	smartCfg  taxonomy.SmartConfig
}

// buildPipeline wires every collaborator using the CLI's global flags: the
// configured embedding backend, the bundled lexical fixture, the two-tier
// embedding cache at --cache-db, and the SmartConfig at --config (or the
// built-in defaults).
func buildPipeline(ctx context.Context, log *zap.Logger, cleanSemantics bool) (*pipeline, error) {
	smartCfg := taxonomy.DefaultSmartConfig()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		smartCfg = loaded
	}

	graph, err := lexical.NewFixtureGraph()
	if err != nil {
		return nil, fmt.Errorf("load lexical fixture: %w", err)
	}
	resolver := lexical.NewResolver(graph)
	source := lexical.NewGraphSource(resolver)

	engineCfg := embedding.DefaultConfig()
	embedder, err := embedding.NewEngine(engineCfg, log)
	if err != nil {
		return nil, fmt.Errorf("build embedding engine: %w", err)
	}

	embedCache, err := cache.NewEmbeddingCache(cachePath, embedder, log)
	if err != nil {
		return nil, fmt.Errorf("open embedding cache: %w", err)
	}
	umapCache := cache.NewUMAPCache(cache.DefaultUMAPCacheSize)

	collector := telemetry.NewZapCollector(log)

	arr := arranger.New(embedCache, umapCache, reduce.NewPCAReducer(), clusterer.NewDensityClusterer(), collector)

	var cleaner linter.ListCleaner = linter.NopCleaner{}
	if cleanSemantics {
		cleaner = linter.NewDensityCleaner(embedder, clusterer.NewDensityClusterer())
	}

	engine := traversal.New(resolver, pruner.New(), cleaner, collector)

	return &pipeline{
		resolver:   resolver,
		source:     source,
		embedCache: embedCache,
		umapCache:  umapCache,
		arranger:   arr,
		pruner:     pruner.New(),
		engine:     engine,
		shaper:     shaper.New(),
		collector:  collector,
		smartCfg:   smartCfg,
	}, nil
}

func (p *pipeline) Close() {
	if p.embedCache != nil {
		_ = p.embedCache.Close()
	}
}

// Generate builds a taxonomy rooted at rootTerm: traverse the lexical
// hierarchy under a node budget, arrange any oversized leaf list the
// lexicon didn't subdivide far enough, then shape the result.
func (p *pipeline) Generate(ctx context.Context, rootTerm string, budgetLimit int) (taxonomy.StructureNode, error) {
	concept, ok := p.source.ConceptFor(rootTerm)
	if !ok {
		return taxonomy.StructureNode{}, fmt.Errorf("no lexical entry for %q", rootTerm)
	}

	budget := taxonomy.NewBudget(budgetLimit)
	node, ok, err := p.engine.Traverse(ctx, concept, budget, p.smartCfg)
	if err != nil {
		return taxonomy.StructureNode{}, fmt.Errorf("traverse %q: %w", rootTerm, err)
	}
	if !ok {
		return taxonomy.StructureNode{}, fmt.Errorf("%q was filtered out before producing any structure", rootTerm)
	}

	if p.smartCfg.SemanticArrangement {
		node, err = p.arrangeOversized(ctx, node)
		if err != nil {
			return taxonomy.StructureNode{}, fmt.Errorf("arrange %q: %w", rootTerm, err)
		}
	}

	shapeCfg := shaper.DefaultConfig()
	if p.smartCfg.OrphansLabelTemplate != "" {
		shapeCfg.OrphansLabel = p.smartCfg.OrphansLabelTemplate
	}
	return p.shaper.Shape(node, shapeCfg), nil
}

// arrangeOversized recursively replaces any leaf list at least twice
// SemanticArrangementMinCluster large with the Arranger's embedding-based
// sub-categorization of it, leaving smaller leaf lists untouched.
func (p *pipeline) arrangeOversized(ctx context.Context, node taxonomy.StructureNode) (taxonomy.StructureNode, error) {
	threshold := p.smartCfg.SemanticArrangementMinCluster * 2
	if threshold <= 0 {
		threshold = 10
	}

	if node.IsLeafList() {
		if len(node.Leaves) < threshold {
			return node, nil
		}
		cfg := arranger.DefaultConfig()
		cfg.MinClusterSize = p.smartCfg.SemanticArrangementMinCluster
		cfg.MinSamples = p.smartCfg.SemanticArrangementMinCluster
		if p.smartCfg.HDBSCANMinSamples != nil {
			cfg.MinSamples = *p.smartCfg.HDBSCANMinSamples
		}
		cfg.Threshold = p.smartCfg.SemanticArrangementThreshold
		if p.smartCfg.SemanticArrangementMethod != "" {
			cfg.SelectionMethod = p.smartCfg.SemanticArrangementMethod
		}
		if p.smartCfg.UMAPNeighbors > 0 {
			cfg.Neighbors = p.smartCfg.UMAPNeighbors
		}
		if p.smartCfg.UMAPMinDist > 0 {
			cfg.MinDist = p.smartCfg.UMAPMinDist
		}
		if p.smartCfg.UMAPComponents > 0 {
			cfg.Components = p.smartCfg.UMAPComponents
		}
		return p.arranger.ArrangeList(ctx, node.Name, node.Leaves, cfg)
	}

	for name, child := range node.Children {
		rearranged, err := p.arrangeOversized(ctx, child)
		if err != nil {
			return taxonomy.StructureNode{}, err
		}
		node.Children[name] = rearranged
	}
	return node, nil
}
