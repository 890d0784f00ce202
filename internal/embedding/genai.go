package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"google.golang.org/genai"
)

// maxBatchSize is the maximum number of texts the GenAI API accepts in a
// single EmbedContent call.
const maxBatchSize = 100

func int32Ptr(i int32) *int32 { return &i }

// GenAIEngine generates embeddings using Google's Gemini embedding API.
type GenAIEngine struct {
	client   *genai.Client
	model    string
	taskType string
	log      *zap.Logger
}

// NewGenAIEngine creates a new GenAI embedding engine.
func NewGenAIEngine(apiKey, model, taskType string, log *zap.Logger) (*GenAIEngine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if apiKey == "" {
		return nil, fmt.Errorf("genai API key is required")
	}
	if model == "" {
		model = "gemini-embedding-001"
	}
	if taskType == "" {
		taskType = "SEMANTIC_SIMILARITY"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GenAIEngine{
		client:   client,
		model:    model,
		taskType: taskType,
		log:      log.With(zap.String("engine", "genai"), zap.String("model", model)),
	}, nil
}

// Embed generates an embedding for a single text.
func (e *GenAIEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := e.embedBatchChunk(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts, chunking at the API's
// per-request limit and concatenating the results.
func (e *GenAIEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	if len(texts) <= maxBatchSize {
		return e.embedBatchChunk(ctx, texts)
	}

	numBatches := (len(texts) + maxBatchSize - 1) / maxBatchSize
	all := make([][]float32, 0, len(texts))

	for i := 0; i < numBatches; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		start := i * maxBatchSize
		end := start + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		chunk, err := e.embedBatchChunk(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("batch %d of %d: %w", i+1, numBatches, err)
		}
		all = append(all, chunk...)
	}
	return all, nil
}

func (e *GenAIEngine) embedBatchChunk(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	start := time.Now()
	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		OutputDimensionality: int32Ptr(3072),
	})
	latency := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("genai embed failed: %w", err)
	}

	e.log.Debug("embedded batch", zap.Int("count", len(texts)), zap.Duration("latency", latency))

	embeddings := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		embeddings[i] = emb.Values
	}
	return embeddings, nil
}

// Dimensions returns the dimensionality of embeddings (gemini-embedding-001: 3072).
func (e *GenAIEngine) Dimensions() int { return 3072 }

// Name returns the engine name.
func (e *GenAIEngine) Name() string { return fmt.Sprintf("genai:%s", e.model) }

// Close is a no-op; the GenAI client needs no explicit cleanup.
func (e *GenAIEngine) Close() error { return nil }
