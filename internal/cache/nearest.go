package cache

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
)

var vecScratchCounter int64

// nextVecScratchTable names a throwaway vec0 table unique to one
// NearestCachedTerms call, so concurrent calls never collide in the
// process-wide vecTables registry.
func nextVecScratchTable() string {
	id := atomic.AddInt64(&vecScratchCounter, 1)
	return fmt.Sprintf("vec_scratch_%d", id)
}

func clearVecTable(name string) {
	vecTablesMu.Lock()
	delete(vecTables, name)
	vecTablesMu.Unlock()
}

// NearestCachedTerms ranks candidateTerms by cosine distance to queryTerm,
// computing every embedding through the ordinary two-tier cache (so repeat
// calls with the same terms hit it) and doing the actual nearest-neighbor
// scoring in SQL against the vec0 virtual table (or the real
// asg017/sqlite-vec-go-bindings extension, when built with the sqlite_vec
// cgo tag). It's a debug/inspection helper for poking at what the cache
// holds; the arrange pipeline clusters directly in Go and doesn't call it.
func (c *EmbeddingCache) NearestCachedTerms(ctx context.Context, queryTerm string, candidateTerms []string, k int) ([]string, error) {
	if len(candidateTerms) == 0 || k <= 0 {
		return nil, nil
	}

	vecs, err := c.EmbeddingsFor(ctx, append([]string{queryTerm}, candidateTerms...))
	if err != nil {
		return nil, fmt.Errorf("embed query and candidates: %w", err)
	}
	queryVec, candidateVecs := vecs[0], vecs[1:]

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open vec scratch db: %w", err)
	}
	defer db.Close()

	table := nextVecScratchTable()
	defer clearVecTable(table)

	if _, err := db.Exec(fmt.Sprintf(`CREATE VIRTUAL TABLE %s USING vec0(embedding BLOB, term TEXT)`, table)); err != nil {
		return nil, fmt.Errorf("create vec scratch table: %w", err)
	}

	insert := fmt.Sprintf(`INSERT INTO %s (embedding, term) VALUES (?, ?)`, table)
	for i, term := range candidateTerms {
		if _, err := db.Exec(insert, encodeVectors([][]float32{candidateVecs[i]}), term); err != nil {
			return nil, fmt.Errorf("index candidate %q: %w", term, err)
		}
	}

	query := fmt.Sprintf(`SELECT term FROM %s ORDER BY vector_distance_cos(embedding, ?) LIMIT ?`, table)
	rows, err := db.Query(query, encodeVectors([][]float32{queryVec}), k)
	if err != nil {
		return nil, fmt.Errorf("query nearest terms: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, fmt.Errorf("scan nearest term: %w", err)
		}
		out = append(out, term)
	}
	return out, rows.Err()
}
