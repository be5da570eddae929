// Package geom implements the pure, vectorized geometry kernel shared by
// the force assembler and scale controller: pairwise distances, unitary
// direction vectors, interaction strengths, and the scalar summaries
// (centroid, minimum pair distance, maximum radial distance) that drive
// the embedder's band constraints.
//
// Every function here is pure and allocation-only; none of them retain
// state across calls, matching spec.md §4.2 and the single-threaded
// deterministic model of spec.md §5.
package geom

import (
	"math"

	"github.com/cpmech/gosl/la"
)

// epsilon guards all divisions against near-coincident points.
const epsilon = 1e-12

// DistanceMatrix returns the symmetric, zero-diagonal n x n matrix of
// Euclidean distances between the rows of P (n points in d dimensions).
func DistanceMatrix(P [][]float64) [][]float64 {
	n := len(P)
	R := la.MatAlloc(n, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := euclidean(P[i], P[j])
			R[i][j] = d
			R[j][i] = d
		}
	}
	return R
}

func euclidean(a, b []float64) float64 {
	sum := 0.0
	for k := range a {
		diff := a[k] - b[k]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// UnitaryVectors returns the n x n x d array U where U[i][j] is the unit
// vector pointing from P[i] to P[j]: (P[j]-P[i])/R[i][j]. The diagonal
// and any pair with R[i][j] < epsilon are left as the zero vector.
func UnitaryVectors(P, R [][]float64) [][][]float64 {
	n := len(P)
	d := 0
	if n > 0 {
		d = len(P[0])
	}
	U := make([][][]float64, n)
	for i := 0; i < n; i++ {
		U[i] = make([][]float64, n)
		for j := 0; j < n; j++ {
			U[i][j] = make([]float64, d)
			if i == j || R[i][j] < epsilon {
				continue
			}
			for k := 0; k < d; k++ {
				U[i][j][k] = (P[j][k] - P[i][k]) / R[i][j]
			}
		}
	}
	return U
}

// InteractionMatrix applies r^-6 elementwise to the strict upper
// triangle of R and mirrors it, leaving the diagonal at zero. Entries
// where R is effectively zero are clipped to the largest representable
// interaction rather than +Inf, so downstream arithmetic never has to
// special-case infinities (spec.md §3: "R_ij = ∞ is handled by
// clipping").
func InteractionMatrix(R [][]float64) [][]float64 {
	n := len(R)
	I := la.MatAlloc(n, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := interactionOf(R[i][j])
			I[i][j] = v
			I[j][i] = v
		}
	}
	return I
}

func interactionOf(r float64) float64 {
	if r < epsilon {
		return math.MaxFloat64
	}
	return 1.0 / math.Pow(r, 6)
}

// Centroid returns the mean position across all rows of P.
func Centroid(P [][]float64) []float64 {
	n := len(P)
	if n == 0 {
		return nil
	}
	d := len(P[0])
	c := la.Vector(make([]float64, d))
	for i := 0; i < n; i++ {
		for k := 0; k < d; k++ {
			c[k] += P[i][k]
		}
	}
	for k := 0; k < d; k++ {
		c[k] /= float64(n)
	}
	return c
}

// MinPairDistance returns the smallest pairwise distance in P (n must be
// >= 2); it is +Inf for n < 2.
func MinPairDistance(P [][]float64) float64 {
	n := len(P)
	if n < 2 {
		return math.Inf(1)
	}
	min := math.Inf(1)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := euclidean(P[i], P[j])
			if d < min {
				min = d
			}
		}
	}
	return min
}

// MaxRadialDistance returns the largest distance from any row of P to
// the centroid of P.
func MaxRadialDistance(P [][]float64) float64 {
	c := Centroid(P)
	max := 0.0
	for i := range P {
		d := euclidean(P[i], c)
		if d > max {
			max = d
		}
	}
	return max
}
