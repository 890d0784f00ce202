package reduce

import "math"

// PCAReducer reduces dimensionality via power-iteration PCA: it repeatedly
// extracts the top variance-explaining direction by power-iterating the
// (implicit) covariance matrix, deflates it out, and repeats for the next
// component. This is a real, general-purpose reducer, not a UMAP
// reimplementation; it stands in for UMAP per reduce.Reducer's contract
// (see package doc) because no Go UMAP port exists in the corpus this
// pipeline was grounded on.
type PCAReducer struct {
	// Iterations bounds the power-iteration steps per component. 100 is
	// more than enough to converge for the modest row counts (tens to low
	// thousands of terms) this pipeline clusters.
	Iterations int
}

// NewPCAReducer creates a PCAReducer with a sensible iteration bound.
func NewPCAReducer() *PCAReducer {
	return &PCAReducer{Iterations: 100}
}

// Name implements Reducer.
func (r *PCAReducer) Name() string { return "pca" }

// Reduce implements Reducer. Inputs with fewer than MinRowsForReduction
// rows, zero-length rows, or components >= the row length are passed through
// unchanged, mirroring the UMAP fallback this type stands in for.
// components <= 0 keeps every dimension.
func (r *PCAReducer) Reduce(rows [][]float64, components int) ([][]float64, error) {
	n := len(rows)
	if n == 0 {
		return rows, nil
	}
	dim := len(rows[0])
	if n < MinRowsForReduction || dim == 0 || components >= dim {
		return rows, nil
	}
	if components <= 0 {
		components = dim
	}

	centered, means := center(rows, dim)
	_ = means

	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, components)
	}

	working := copyMatrix(centered)
	for c := 0; c < components; c++ {
		direction := r.topComponent(working, dim)
		for i := 0; i < n; i++ {
			out[i][c] = dot(working[i], direction)
		}
		deflate(working, direction)
	}

	return out, nil
}

func center(rows [][]float64, dim int) ([][]float64, []float64) {
	n := len(rows)
	means := make([]float64, dim)
	for _, row := range rows {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(n)
	}

	centered := make([][]float64, n)
	for i, row := range rows {
		centered[i] = make([]float64, dim)
		for j, v := range row {
			centered[i][j] = v - means[j]
		}
	}
	return centered, means
}

func copyMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// topComponent estimates the dominant eigenvector of the implicit covariance
// matrix X^T X via power iteration on the data matrix directly, avoiding
// materializing the dim x dim covariance matrix.
func (r *PCAReducer) topComponent(rows [][]float64, dim int) []float64 {
	v := make([]float64, dim)
	for j := range v {
		v[j] = 1.0 / float64(j+2) // deterministic, non-degenerate seed
	}
	normalize(v)

	iterations := r.Iterations
	if iterations <= 0 {
		iterations = 100
	}

	for iter := 0; iter < iterations; iter++ {
		next := make([]float64, dim)
		for _, row := range rows {
			coeff := dot(row, v)
			for j, x := range row {
				next[j] += coeff * x
			}
		}
		if normalize(next) == 0 {
			return v
		}
		v = next
	}
	return v
}

// deflate subtracts each row's projection onto direction, in place, so the
// next power iteration finds the next-largest-variance direction.
func deflate(rows [][]float64, direction []float64) {
	for i, row := range rows {
		coeff := dot(row, direction)
		for j := range row {
			rows[i][j] = row[j] - coeff*direction[j]
		}
	}
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// normalize scales v to unit length in place and returns its original norm.
func normalize(v []float64) float64 {
	var sumSq float64
	for _, x := range v {
		sumSq += x * x
	}
	norm := math.Sqrt(sumSq)
	if norm == 0 {
		return 0
	}
	for i := range v {
		v[i] /= norm
	}
	return norm
}
