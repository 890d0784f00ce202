package namer

import (
	"math"
	"sort"
	"strings"
)

// TFIDFIndex scores terms by how distinctive they are within a corpus of
// term lists, used as the Cluster Namer's last-resort fallback when neither
// a lowest-common-ancestor name nor a medoid hypernym is available.
// Grounded on the original project's extract_unique_keywords, which built a
// TF-IDF vectorizer over the sibling lists at the same tree level and picked
// the highest-scoring tokens for the list being named.
type TFIDFIndex struct {
	docFreq map[string]int
	docs    int
}

// NewTFIDFIndex builds an index from a corpus of documents, each document
// being the list of terms under one sibling node.
func NewTFIDFIndex(corpus [][]string) *TFIDFIndex {
	idx := &TFIDFIndex{docFreq: map[string]int{}}
	for _, doc := range corpus {
		seen := map[string]struct{}{}
		for _, term := range doc {
			for _, tok := range tokenize(term) {
				if _, dup := seen[tok]; dup {
					continue
				}
				seen[tok] = struct{}{}
				idx.docFreq[tok]++
			}
		}
		idx.docs++
	}
	return idx
}

// TopKeyword returns the most distinctive token across terms: the token
// with the highest term-frequency-within-list times inverse-document-
// frequency-across-corpus score. Returns "" if terms tokenizes to nothing.
func (idx *TFIDFIndex) TopKeyword(terms []string) string {
	tf := map[string]int{}
	total := 0
	for _, term := range terms {
		for _, tok := range tokenize(term) {
			tf[tok]++
			total++
		}
	}
	if total == 0 {
		return ""
	}

	type scored struct {
		token string
		score float64
	}
	var candidates []scored
	for tok, count := range tf {
		idf := math.Log(float64(idx.docs+1)/float64(idx.docFreq[tok]+1)) + 1
		score := (float64(count) / float64(total)) * idf
		candidates = append(candidates, scored{token: tok, score: score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].token < candidates[j].token
	})
	return candidates[0].token
}

func tokenize(term string) []string {
	fields := strings.FieldsFunc(strings.ToLower(term), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 2 {
			out = append(out, f)
		}
	}
	return out
}
