// Package reduce implements the Arranger's dimensionality-reduction step: a
// pluggable interface plus an in-tree implementation, since no Go UMAP port
// exists in the reference corpus this pipeline was grounded on.
package reduce

// Reducer maps a set of high-dimensional row vectors onto a lower-dimensional
// space that density clustering can work with more reliably. Implementations
// should pass input through unchanged when there are too few rows to reduce
// meaningfully, matching the original project's UMAP-unavailable fallback.
type Reducer interface {
	// Reduce returns one output row per input row, each of length
	// min(components, len(rows[i])).
	Reduce(rows [][]float64, components int) ([][]float64, error)

	// Name identifies the reducer, used in cache keys and logging.
	Name() string
}

// MinRowsForReduction is the smallest input size this package's reducers
// will actually reduce; smaller inputs pass through unchanged. Grounded on
// the original project's UMAP guard (n_samples < 16 → passthrough), since a
// reducer benefits from more neighbors than that to find real structure.
const MinRowsForReduction = 16
