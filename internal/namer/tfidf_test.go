package namer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"drops short tokens", "a cat in-a hat", []string{"cat", "hat"}},
		{"splits punctuation", "golden_retriever/dog", []string{"golden", "retriever", "dog"}},
		{"lowercases", "HUSKY", []string{"husky"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tokenize(tc.in))
		})
	}
	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, tokenize(""))
	})
}

func TestTFIDFIndex_TopKeyword(t *testing.T) {
	corpus := [][]string{
		{"golden retriever", "labrador retriever", "poodle"},
		{"siamese cat", "persian cat", "tabby cat"},
		{"goldfish", "koi"},
	}
	idx := NewTFIDFIndex(corpus)

	// "retriever" appears in both list members while "golden" and "labrador"
	// each appear once, and all three tokens are equally rare across the
	// corpus, so "retriever"'s higher within-list frequency should win.
	got := idx.TopKeyword([]string{"golden retriever", "labrador retriever"})
	assert.Equal(t, "retriever", got)
}

func TestTFIDFIndex_TopKeyword_EmptyInput(t *testing.T) {
	idx := NewTFIDFIndex([][]string{{"a"}})
	assert.Equal(t, "", idx.TopKeyword(nil))
	assert.Equal(t, "", idx.TopKeyword([]string{"to", "a", "in"}))
}
