package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sync"
)

// UMAPKey identifies one reduction request: the input matrix's content hash
// plus the reducer parameters that affect its output.
type UMAPKey struct {
	InputHash  string
	Neighbors  int
	MinDist    float64
	Components int
}

func (k UMAPKey) string() string {
	return fmt.Sprintf("%s|%d|%.6f|%d", k.InputHash, k.Neighbors, k.MinDist, k.Components)
}

// HashMatrix returns a stable content hash for a row-major float64 matrix,
// suitable as UMAPKey.InputHash.
func HashMatrix(rows [][]float64) string {
	h := sha256.New()
	var buf [8]byte
	for _, row := range rows {
		for _, v := range row {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// UMAPCache is a bounded, FIFO-evicted cache of dimensionality-reduction
// results, default size 10. Grounded on the original project's in-process
// UMAP cache: a plain dict capped at a fixed size, with the oldest entry
// evicted (by insertion order) once the cap is hit. No ecosystem LRU/FIFO
// library was found anywhere in the reference corpus for a cache this
// small, so it is implemented directly with container/list.
type UMAPCache struct {
	mu       sync.Mutex
	maxSize  int
	entries  map[string]*list.Element
	order    *list.List // front = oldest
}

type umapEntry struct {
	key    string
	result [][]float64
}

// DefaultUMAPCacheSize is the cache size used when none is specified,
// matching the original project's _UMAP_CACHE_MAX_SIZE.
const DefaultUMAPCacheSize = 10

// NewUMAPCache creates a UMAPCache with the given capacity. A non-positive
// size defaults to DefaultUMAPCacheSize.
func NewUMAPCache(maxSize int) *UMAPCache {
	if maxSize <= 0 {
		maxSize = DefaultUMAPCacheSize
	}
	return &UMAPCache{
		maxSize: maxSize,
		entries: map[string]*list.Element{},
		order:   list.New(),
	}
}

// Get returns the cached reduction for key, if present.
func (c *UMAPCache) Get(key UMAPKey) ([][]float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key.string()]
	if !ok {
		return nil, false
	}
	return elem.Value.(*umapEntry).result, true
}

// Put stores a reduction result under key, evicting the oldest entry first
// if the cache is already at capacity. A repeated Put for an existing key
// updates its value without changing its eviction order.
func (c *UMAPCache) Put(key UMAPKey, result [][]float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key.string()
	if elem, ok := c.entries[k]; ok {
		elem.Value.(*umapEntry).result = result
		return
	}

	if len(c.entries) >= c.maxSize {
		oldest := c.order.Front()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*umapEntry).key)
		}
	}

	elem := c.order.PushBack(&umapEntry{key: k, result: result})
	c.entries[k] = elem
}

// Len returns the number of cached entries.
func (c *UMAPCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
