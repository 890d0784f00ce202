// Package embedding provides vector embedding generation for the taxonomy
// pipeline's concept and cluster text. Supports multiple backends: Ollama
// (local) and Google GenAI (cloud).
package embedding

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Engine generates vector embeddings for text. Implementations must be safe
// for concurrent use; the Embedding Cache calls Embed/EmbedBatch from
// multiple goroutines when several cache misses land in the same batch.
type Engine interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the dimensionality of embeddings produced by this engine.
	Dimensions() int

	// Name returns a short identifier for the engine. The embedding cache key
	// does not include it.
	Name() string
}

// HealthChecker is an optional interface for engines that support liveness
// checks before a batch run commits to them.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Config holds embedding engine configuration, typically sourced from a
// SmartConfig's embedding block.
type Config struct {
	// Provider selects the backend: "ollama" or "genai".
	Provider string `yaml:"provider" json:"provider"`

	OllamaEndpoint string `yaml:"ollama_endpoint" json:"ollama_endpoint"`
	OllamaModel    string `yaml:"ollama_model" json:"ollama_model"`

	GenAIAPIKey string `yaml:"genai_api_key" json:"genai_api_key"`
	GenAIModel  string `yaml:"genai_model" json:"genai_model"`

	// TaskType is passed through to GenAI: "SEMANTIC_SIMILARITY", "RETRIEVAL_QUERY", ...
	TaskType string `yaml:"task_type" json:"task_type"`
}

// DefaultConfig returns sensible defaults favoring a local Ollama instance.
func DefaultConfig() Config {
	return Config{
		Provider:       "ollama",
		OllamaEndpoint: "http://localhost:11434",
		OllamaModel:    "embeddinggemma",
		GenAIModel:     "gemini-embedding-001",
		TaskType:       "SEMANTIC_SIMILARITY",
	}
}

// NewEngine creates an embedding engine from configuration.
func NewEngine(cfg Config, log *zap.Logger) (Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "embedding"))
	log.Debug("creating embedding engine", zap.String("provider", cfg.Provider))

	switch cfg.Provider {
	case "ollama":
		return NewOllamaEngine(cfg.OllamaEndpoint, cfg.OllamaModel, log)
	case "genai":
		return NewGenAIEngine(cfg.GenAIAPIKey, cfg.GenAIModel, cfg.TaskType, log)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s (use %q or %q)", cfg.Provider, "ollama", "genai")
	}
}

// CosineSimilarity computes the cosine similarity between two equal-length
// vectors, in [-1, 1].
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vectors must have the same length: %d != %d", len(a), len(b))
	}

	var dot, aMag, bMag float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		aMag += float64(a[i]) * float64(a[i])
		bMag += float64(b[i]) * float64(b[i])
	}
	if aMag == 0 || bMag == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(aMag) * math.Sqrt(bMag)), nil
}

// SimilarityResult is one entry of a FindTopK ranking.
type SimilarityResult struct {
	Index      int
	Similarity float64
}

// FindTopK returns the indices of the K corpus vectors most similar to query,
// sorted by descending cosine similarity. Vectors with mismatched dimensions
// are skipped.
func FindTopK(query []float32, corpus [][]float32, k int) []SimilarityResult {
	if k <= 0 {
		k = 10
	}

	results := make([]SimilarityResult, 0, len(corpus))
	for i, v := range corpus {
		sim, err := CosineSimilarity(query, v)
		if err != nil {
			continue
		}
		results = append(results, SimilarityResult{Index: i, Similarity: sim})
	}

	for i := 0; i < len(results) && i < k; i++ {
		for j := i + 1; j < len(results); j++ {
			if results[j].Similarity > results[i].Similarity {
				results[i], results[j] = results[j], results[i]
			}
		}
	}

	if len(results) > k {
		results = results[:k]
	}
	return results
}
