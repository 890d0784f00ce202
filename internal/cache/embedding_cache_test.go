package cache

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	calls int32
	dim   int
}

func (f *fakeEngine) Embed(_ context.Context, text string) ([]float32, error) {
	out, err := f.EmbedBatch(nil, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (f *fakeEngine) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	atomic.AddInt32(&f.calls, 1)
	dim := f.dim
	if dim == 0 {
		dim = 3
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, dim)
		for j := range v {
			v[j] = float32(len(t) + j)
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEngine) Dimensions() int { return f.dim }
func (f *fakeEngine) Name() string    { return "fake" }

func TestEmbeddingCache_EmptyTermsReturnsNil(t *testing.T) {
	c, err := NewEmbeddingCache("", nil, nil)
	require.NoError(t, err)

	got, err := c.EmbeddingsFor(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEmbeddingCache_MemoryTierCachesAcrossCalls(t *testing.T) {
	eng := &fakeEngine{}
	c, err := NewEmbeddingCache("", eng, nil)
	require.NoError(t, err)

	first, err := c.EmbeddingsFor(context.Background(), []string{"dog", "cat"})
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := c.EmbeddingsFor(context.Background(), []string{"cat", "dog"})
	require.NoError(t, err)
	assert.Equal(t, first, second, "term order must not change the cache key")

	assert.Equal(t, int32(1), atomic.LoadInt32(&eng.calls), "the second call must hit the memory tier, not the encoder")
}

func TestEmbeddingCache_NoEngineConfiguredReturnsError(t *testing.T) {
	c, err := NewEmbeddingCache("", nil, nil)
	require.NoError(t, err)

	_, err = c.EmbeddingsFor(context.Background(), []string{"dog"})
	assert.ErrorIs(t, err, ErrEncoderUnavailable)
}

func TestEmbeddingCache_PersistentTierSurvivesNewInstance(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "embeddings.sqlite")

	eng := &fakeEngine{}
	first, err := NewEmbeddingCache(dbPath, eng, nil)
	require.NoError(t, err)
	_, err = first.EmbeddingsFor(context.Background(), []string{"dog"})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewEmbeddingCache(dbPath, nil, nil)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.EmbeddingsFor(context.Background(), []string{"dog"})
	require.NoError(t, err, "a fresh cache instance must serve from the persistent tier without an engine")
	require.Len(t, got, 1)
}

func TestEmbeddingCache_StatsAndClear(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "embeddings.sqlite")
	eng := &fakeEngine{}
	c, err := NewEmbeddingCache(dbPath, eng, nil)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.EmbeddingsFor(context.Background(), []string{"dog"})
	require.NoError(t, err)

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MemoryEntries)
	assert.Equal(t, 1, stats.PersistentEntries)

	require.NoError(t, c.Clear())
	stats, err = c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.MemoryEntries)
	assert.Equal(t, 0, stats.PersistentEntries)
}

func TestEncodeDecodeVectors_RoundTrip(t *testing.T) {
	vecs := [][]float32{{1.5, -2.25, 0}, {3, 4, 5}}
	blob := encodeVectors(vecs)
	got, err := decodeVectors(blob, 2)
	require.NoError(t, err)
	assert.Equal(t, vecs, got)
}

func TestDecodeVectors_RejectsMisalignedBlob(t *testing.T) {
	_, err := decodeVectors([]byte{1, 2, 3}, 1)
	assert.Error(t, err)
}

func TestDecodeVectors_ZeroCountReturnsNil(t *testing.T) {
	got, err := decodeVectors([]byte{1, 2, 3, 4}, 0)
	require.NoError(t, err)
	assert.Nil(t, got)
}
