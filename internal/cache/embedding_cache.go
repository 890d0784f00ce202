// Package cache implements the two-tier Embedding Cache and the bounded
// UMAP Cache the Arranger uses to avoid recomputing expensive embeddings and
// dimensionality reductions across runs and within a single run.
package cache

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	_ "modernc.org/sqlite"

	"taxonomyshaper/internal/embedding"
)

// ErrEncoderUnavailable is returned when an EmbeddingCache has no Engine
// configured and a cache miss occurs.
var ErrEncoderUnavailable = errors.New("cache: no embedding engine configured")

// EmbeddingCache caches embeddings for a whole term set under one key: the
// SHA-256 of the set's normalized, sorted, "|"-joined terms (TermSetKey).
// A memory tier serves repeat lookups within a process; a persistent SQLite
// tier serves repeat lookups across runs. Concurrent misses for the same key
// are deduplicated so the encoder is invoked once per key per process.
type EmbeddingCache struct {
	engine embedding.Engine
	log    *zap.Logger

	mu  sync.RWMutex
	mem map[string][][]float32

	db    *sql.DB
	group singleflight.Group
}

// NewEmbeddingCache opens (or creates) the persistent cache database at
// dbPath and wraps engine for cache misses. Pass an empty dbPath to run with
// the memory tier only (useful for tests).
func NewEmbeddingCache(dbPath string, engine embedding.Engine, log *zap.Logger) (*EmbeddingCache, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := &EmbeddingCache{
		engine: engine,
		log:    log.With(zap.String("component", "embedding_cache")),
		mem:    map[string][][]float32{},
	}

	if dbPath == "" {
		return c, nil
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open embedding cache db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			log.Debug("pragma failed", zap.String("pragma", pragma), zap.Error(err))
		}
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS embeddings (hash TEXT PRIMARY KEY, vector BLOB)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create embeddings table: %w", err)
	}

	c.db = db
	return c, nil
}

// Close releases the persistent tier's database handle, if any.
func (c *EmbeddingCache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Stats reports the number of term sets cached in each tier.
type Stats struct {
	MemoryEntries     int
	PersistentEntries int
}

// Stats returns the current entry counts for the memory and persistent
// tiers. PersistentEntries is always 0 when the cache was opened with an
// empty dbPath.
func (c *EmbeddingCache) Stats() (Stats, error) {
	c.mu.RLock()
	stats := Stats{MemoryEntries: len(c.mem)}
	c.mu.RUnlock()

	if c.db == nil {
		return stats, nil
	}
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM embeddings`).Scan(&stats.PersistentEntries); err != nil {
		return stats, fmt.Errorf("count cached embeddings: %w", err)
	}
	return stats, nil
}

// Clear empties both cache tiers.
func (c *EmbeddingCache) Clear() error {
	c.mu.Lock()
	c.mem = map[string][][]float32{}
	c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	if _, err := c.db.Exec(`DELETE FROM embeddings`); err != nil {
		return fmt.Errorf("clear persistent cache: %w", err)
	}
	return nil
}

// EmbeddingsFor returns one embedding per term in terms, in input order,
// computing and caching them (as a single blob keyed by the whole set) on a
// miss. Concurrent calls for the same term set share one encoder
// invocation.
func (c *EmbeddingCache) EmbeddingsFor(ctx context.Context, terms []string) ([][]float32, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	key := TermSetKey(terms)

	if vecs, ok := c.memoryGet(key); ok {
		return vecs, nil
	}

	if c.db != nil {
		if vecs, ok, err := c.dbGet(key, len(terms)); err != nil {
			c.log.Debug("db read failed", zap.Error(err))
		} else if ok {
			c.memoryPut(key, vecs)
			return vecs, nil
		}
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check memory: another call for this key may have stored it
		// between this caller's miss and its entry into Do.
		if vecs, ok := c.memoryGet(key); ok {
			return vecs, nil
		}
		if c.engine == nil {
			return nil, ErrEncoderUnavailable
		}

		vecs, err := c.engine.EmbedBatch(ctx, terms)
		if err != nil {
			return nil, fmt.Errorf("compute embeddings: %w", err)
		}

		c.memoryPut(key, vecs)
		if c.db != nil {
			if err := c.dbPut(key, vecs); err != nil {
				c.log.Warn("db write failed", zap.Error(err))
			}
		}
		return vecs, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([][]float32), nil
}

func (c *EmbeddingCache) memoryGet(key string) ([][]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vecs, ok := c.mem[key]
	return vecs, ok
}

func (c *EmbeddingCache) memoryPut(key string, vecs [][]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mem[key] = vecs
}

func (c *EmbeddingCache) dbGet(key string, count int) ([][]float32, bool, error) {
	var blob []byte
	err := c.db.QueryRow(`SELECT vector FROM embeddings WHERE hash = ?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	vecs, err := decodeVectors(blob, count)
	if err != nil {
		return nil, false, err
	}
	return vecs, true, nil
}

func (c *EmbeddingCache) dbPut(key string, vecs [][]float32) error {
	blob := encodeVectors(vecs)
	_, err := c.db.Exec(`INSERT OR IGNORE INTO embeddings (hash, vector) VALUES (?, ?)`, key, blob)
	return err
}

// encodeVectors concatenates a slice of equal-length float32 vectors into a
// little-endian byte blob.
func encodeVectors(vecs [][]float32) []byte {
	if len(vecs) == 0 {
		return nil
	}
	dim := len(vecs[0])
	buf := make([]byte, 0, len(vecs)*dim*4)
	for _, v := range vecs {
		for _, f := range v {
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], math.Float32bits(f))
			buf = append(buf, b[:]...)
		}
	}
	return buf
}

// decodeVectors splits a little-endian blob back into count equal-length
// float32 vectors.
func decodeVectors(blob []byte, count int) ([][]float32, error) {
	if count == 0 {
		return nil, nil
	}
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("decode vectors: blob length %d not a multiple of 4", len(blob))
	}
	total := len(blob) / 4
	if total%count != 0 {
		return nil, fmt.Errorf("decode vectors: %d floats not divisible by %d terms", total, count)
	}
	dim := total / count

	vecs := make([][]float32, count)
	for i := 0; i < count; i++ {
		v := make([]float32, dim)
		for j := 0; j < dim; j++ {
			off := (i*dim + j) * 4
			v[j] = math.Float32frombits(binary.LittleEndian.Uint32(blob[off : off+4]))
		}
		vecs[i] = v
	}
	return vecs, nil
}
