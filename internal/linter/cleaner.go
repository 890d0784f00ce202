// Package linter implements the semantic-cleaning collaborator the
// Traversal Engine consults before bubbling up a leaf list: it flags terms
// that are semantic outliers relative to the rest of their list so they can
// be routed elsewhere instead of diluting a tight category.
package linter

import (
	"context"
	"fmt"

	"taxonomyshaper/internal/clusterer"
	"taxonomyshaper/internal/embedding"
)

// Cleaned is the result of cleaning one leaf list: the terms that belong,
// and the terms flagged as outliers along with why.
type Cleaned struct {
	Kept     []string
	Outliers []OutlierTerm
}

// OutlierTerm is a term ListCleaner flagged as not belonging with the rest
// of its list.
type OutlierTerm struct {
	Term  string
	Score float64
}

// ListCleaner decides which terms in a leaf list are semantic outliers.
type ListCleaner interface {
	Clean(ctx context.Context, terms []string) (Cleaned, error)
}

// DensityCleaner flags outliers via density clustering: a term is flagged
// when it lands in the noise cluster and its outlier score exceeds
// 1 - Threshold.
// Grounded on the original project's clean_list, which ran HDBSCAN over a
// list's embeddings with min_cluster_size=2 and treated noise-labeled and
// high outlier_scores_ terms as not belonging.
type DensityCleaner struct {
	Embedder  interface {
		EmbedBatch(ctx context.Context, terms []string) ([][]float32, error)
	}
	Clusterer clusterer.Clusterer
	Threshold float64
	MinTerms  int
}

// NewDensityCleaner creates a DensityCleaner with the original project's
// default threshold (0.1) and a minimum list size below which cleaning is
// skipped entirely (too few terms for density clustering to say anything
// meaningful).
func NewDensityCleaner(embedder interface {
	EmbedBatch(ctx context.Context, terms []string) ([][]float32, error)
}, c clusterer.Clusterer) *DensityCleaner {
	return &DensityCleaner{Embedder: embedder, Clusterer: c, Threshold: 0.1, MinTerms: 6}
}

// Clean implements ListCleaner.
func (d *DensityCleaner) Clean(ctx context.Context, terms []string) (Cleaned, error) {
	if len(terms) < d.MinTerms {
		return Cleaned{Kept: terms}, nil
	}

	vecs, err := d.Embedder.EmbedBatch(ctx, terms)
	if err != nil {
		return Cleaned{}, fmt.Errorf("embed terms for cleaning: %w", err)
	}

	rows := make([][]float64, len(vecs))
	for i, v := range vecs {
		row := make([]float64, len(v))
		for j, f := range v {
			row[j] = float64(f)
		}
		rows[i] = row
	}

	result, err := d.Clusterer.Cluster(rows, clusterer.Options{
		MinClusterSize: 2,
		MinSamples:     2,
	})
	if err != nil {
		return Cleaned{}, fmt.Errorf("cluster terms for cleaning: %w", err)
	}

	threshold := d.Threshold
	if threshold <= 0 {
		threshold = 0.1
	}

	out := Cleaned{}
	for i, term := range terms {
		isNoise := result.Labels[i] == -1
		highOutlier := result.OutlierScores[i] > (1 - threshold)
		if isNoise && highOutlier {
			out.Outliers = append(out.Outliers, OutlierTerm{Term: term, Score: result.OutlierScores[i]})
			continue
		}
		out.Kept = append(out.Kept, term)
	}

	// A wholesale flag (everything looked like noise, e.g. too few members
	// per sub-group) is almost always a clustering artifact rather than a
	// real signal; fall back to keeping the whole list untouched.
	if len(out.Kept) == 0 {
		return Cleaned{Kept: terms}, nil
	}
	return out, nil
}

// NopCleaner keeps every term, used when semantic cleaning is disabled via
// configuration.
type NopCleaner struct{}

// Clean implements ListCleaner.
func (NopCleaner) Clean(_ context.Context, terms []string) (Cleaned, error) {
	return Cleaned{Kept: terms}, nil
}
