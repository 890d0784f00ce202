package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "ollama", cfg.Provider)
	assert.NotEmpty(t, cfg.OllamaEndpoint)
}

func TestNewEngine_UnsupportedProvider(t *testing.T) {
	_, err := NewEngine(Config{Provider: "carrier-pigeon"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported embedding provider")
}

func TestNewEngine_Ollama(t *testing.T) {
	eng, err := NewEngine(Config{Provider: "ollama", OllamaEndpoint: "http://localhost:11434", OllamaModel: "embeddinggemma"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ollama:embeddinggemma", eng.Name())
}

func TestCosineSimilarity(t *testing.T) {
	sim, err := CosineSimilarity([]float32{1, 0}, []float32{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 0.0001)

	sim, err = CosineSimilarity([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sim, 0.0001)

	sim, err = CosineSimilarity([]float32{1, 0}, []float32{-1, 0})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, sim, 0.0001)
}

func TestCosineSimilarity_MismatchedLengths(t *testing.T) {
	_, err := CosineSimilarity([]float32{1, 0}, []float32{1})
	assert.Error(t, err)
}

func TestCosineSimilarity_ZeroVectorIsZero(t *testing.T) {
	sim, err := CosineSimilarity([]float32{0, 0}, []float32{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 0.0, sim)
}

func TestFindTopK(t *testing.T) {
	query := []float32{1, 0}
	corpus := [][]float32{
		{1, 0},    // identical
		{0, 1},    // orthogonal
		{0.9, 0.1}, // close
	}
	got := FindTopK(query, corpus, 2)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Index)
	assert.Equal(t, 2, got[1].Index)
}

func TestFindTopK_DefaultsKWhenNonPositive(t *testing.T) {
	corpus := [][]float32{{1, 0}, {0, 1}, {1, 1}}
	got := FindTopK([]float32{1, 0}, corpus, 0)
	assert.Len(t, got, 3)
}

func TestFindTopK_SkipsMismatchedDimensions(t *testing.T) {
	corpus := [][]float32{{1, 0}, {1, 0, 0}}
	got := FindTopK([]float32{1, 0}, corpus, 5)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].Index)
}
