// Package namer implements the Cluster Namer: given a group of terms
// discovered by density clustering, produce a human-readable category name.
// Grounded on the original project's arranger naming cascade
// (get_lca_name -> get_medoid_name -> _generate_descriptive_name) with its
// collision-breaking suffix logic.
package namer

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"taxonomyshaper/internal/lexical"
)

// Source records which cascade step produced a name, surfaced for
// diagnostics and tests.
type Source string

const (
	SourceLCA       Source = "lca"
	SourceHypernym  Source = "medoid_hypernym"
	SourceKeyword   Source = "tfidf"
	SourceFallback  Source = "fallback"
)

// Named is a name plus which cascade step produced it.
type Named struct {
	Name   string
	Source Source
}

// Namer produces cluster names via the LCA -> medoid hypernym -> TF-IDF
// keyword cascade, breaking collisions with a deterministic suffix scheme.
type Namer struct {
	resolver *lexical.Resolver
	tfidf    *TFIDFIndex

	mu   sync.Mutex
	used map[string]int
}

// New creates a Namer. resolver may be nil to skip the lexical steps
// entirely and go straight to the TF-IDF fallback (e.g. when no lexical
// fixture covers the domain). corpus is every sibling cluster's term list,
// used to compute keyword distinctiveness.
func New(resolver *lexical.Resolver, corpus [][]string) *Namer {
	return &Namer{
		resolver: resolver,
		tfidf:    NewTFIDFIndex(corpus),
		used:     map[string]int{},
	}
}

// Name produces a name for one cluster's members, given their embeddings
// (row-aligned with members, used to find the medoid for the LCA check and
// the hypernym fallback). Nil embeddings skip both medoid steps.
func (n *Namer) Name(members []string, embeddings [][]float64) Named {
	named := n.cascade(members, embeddings)
	named.Name = n.dedupe(named.Name, members)
	return named
}

func (n *Namer) cascade(members []string, embeddings [][]float64) Named {
	hasEmbeddings := len(embeddings) == len(members) && len(members) > 0

	var medoidSense lexical.Sense
	var haveMedoidSense bool
	if n.resolver != nil && hasEmbeddings {
		if medoid := medoidIndex(embeddings); medoid >= 0 {
			medoidSense, haveMedoidSense = n.resolver.PrimarySense(members[medoid])
		}
	}

	if n.resolver != nil {
		if lcaSense, ok := n.resolver.LCASense(members); ok {
			if !haveMedoidSense || n.resolver.IsAncestorSense(lcaSense, medoidSense) {
				return Named{Name: titleCase(lcaSense.Name), Source: SourceLCA}
			}
		}
	}

	if n.resolver != nil && haveMedoidSense {
		if parent, ok := n.resolver.Hypernym(medoidSense); ok && !n.resolver.IsAbstractCategory(parent) {
			return Named{Name: titleCase(parent.Name), Source: SourceHypernym}
		}
	}

	if keyword := n.tfidf.TopKeyword(members); keyword != "" {
		return Named{Name: titleCase(keyword) + " Group", Source: SourceKeyword}
	}

	return Named{Name: "Miscellaneous", Source: SourceFallback}
}

// dedupe appends a disambiguating suffix the first time a name repeats
// within a Namer's lifetime: "Name (keyword)" using the cluster's own
// top keyword, falling back to a numeric counter if that still collides.
func (n *Namer) dedupe(name string, members []string) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	count := n.used[name]
	n.used[name] = count + 1
	if count == 0 {
		return name
	}

	if keyword := n.tfidf.TopKeyword(members); keyword != "" {
		candidate := fmt.Sprintf("%s (%s)", name, titleCase(keyword))
		if n.used[candidate] == 0 {
			n.used[candidate]++
			return candidate
		}
	}

	for suffix := 2; ; suffix++ {
		candidate := fmt.Sprintf("%s %d", name, suffix)
		if n.used[candidate] == 0 {
			n.used[candidate]++
			return candidate
		}
	}
}

// medoidIndex returns the index of the row closest (by Euclidean distance)
// to the centroid of all rows, or -1 for an empty input. Mirrors the
// original project's np.mean followed by
// argmin(euclidean_distances([centroid], rows)).
func medoidIndex(rows [][]float64) int {
	if len(rows) == 0 {
		return -1
	}
	if len(rows) == 1 {
		return 0
	}

	centroid := meanRow(rows)

	best := -1
	bestDist := 0.0
	for i, row := range rows {
		dist := euclidean(row, centroid)
		if best == -1 || dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	return best
}

// meanRow computes the element-wise mean of a non-empty set of equal-length
// rows.
func meanRow(rows [][]float64) []float64 {
	dim := len(rows[0])
	mean := make([]float64, dim)
	for _, row := range rows {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(len(rows))
	}
	return mean
}

// titleCase capitalizes the first letter of each space-separated word,
// leaving the rest of each word's casing untouched.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) == 0 {
			continue
		}
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}
