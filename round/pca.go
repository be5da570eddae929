package round

import (
	"gonum.org/v1/gonum/mat"

	"github.com/pasqal-io/qoolqit/geom"
)

// ProjectPCA projects centered positions P (n x d, d >= 2) onto their top
// two principal axes, returning n x 2 coordinates. This is the gonum-
// backed replacement for the source's numpy.linalg.eigh-based PCA step
// (spec.md §4.5, applied only at the final drop to 2 dimensions when
// PCA is enabled); the pack's gosl teacher stack has no symmetric
// eigendecomposition routine, so gonum/mat is used here (SPEC_FULL.md
// §3). The basis orientation (sign of each axis) is arbitrary, per
// spec.md §9 Open Questions.
func ProjectPCA(P [][]float64) [][]float64 {
	n := len(P)
	if n == 0 {
		return nil
	}
	d := len(P[0])
	c := geom.Centroid(P)

	centered := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		for k := 0; k < d; k++ {
			centered.Set(i, k, P[i][k]-c[k])
		}
	}

	var cov mat.SymDense
	cov.SymOuterK(1.0/float64(n), centered.T())

	var eig mat.EigenSym
	if !eig.Factorize(&cov, true) {
		// Degenerate covariance (e.g. all points coincide): fall back to
		// dropping the trailing coordinates, which is the scheduler's
		// non-PCA projection anyway.
		return dropToDim(P, 2)
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	i0, i1 := topTwoIndices(values)

	out := make([][]float64, n)
	for r := 0; r < n; r++ {
		out[r] = []float64{0, 0}
		for k := 0; k < d; k++ {
			v := centered.At(r, k)
			out[r][0] += v * vectors.At(k, i0)
			out[r][1] += v * vectors.At(k, i1)
		}
	}
	return out
}

// topTwoIndices returns the indices of the two largest eigenvalues.
func topTwoIndices(values []float64) (int, int) {
	best0, best1 := -1, -1
	for i, v := range values {
		if best0 == -1 || v > values[best0] {
			best1 = best0
			best0 = i
		} else if best1 == -1 || v > values[best1] {
			best1 = i
		}
	}
	return best0, best1
}

// dropToDim truncates every row of P to its first dim coordinates: the
// default "drop last coordinate" projection (spec.md §4.5 step 2b).
func dropToDim(P [][]float64, dim int) [][]float64 {
	out := make([][]float64, len(P))
	for i := range P {
		row := make([]float64, dim)
		copy(row, P[i][:dim])
		out[i] = row
	}
	return out
}
