package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// TermSetKey returns a stable cache key for a set of terms: each term is
// normalized (lowercased, trimmed), the set is sorted, joined with "|", and
// hashed with SHA-256. Term order never affects the key. Duplicates are not
// removed: a term listed twice yields a different key than the same term
// listed once.
func TermSetKey(terms []string) string {
	normalized := make([]string, len(terms))
	for i, t := range terms {
		normalized[i] = strings.TrimSpace(strings.ToLower(t))
	}
	sort.Strings(normalized)

	sum := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(sum[:])
}
