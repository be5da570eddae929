// Package forces implements the BLADE force assembler (spec.md §4.3,
// component C3): at each step it computes three superposed force fields
// — interaction-matching, minimum-distance repulsion, and maximum-radial
// confinement — and returns the updated position array.
package forces

import (
	"fmt"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/pasqal-io/qoolqit/geom"
)

// Band is the pair (Min, Max) of the currently admissible minimum
// pairwise distance and maximum radial distance (spec.md §3). A nil
// *Band disables both the min-distance and max-radial force fields,
// leaving only the interaction-matching force (spec.md §4.3 invariants).
type Band struct {
	Min float64
	Max float64
}

// Params bundles the per-step tunables of the force assembler.
type Params struct {
	// WeightRelativeThreshold is θ_w, evaluated at the current cursor.
	WeightRelativeThreshold float64
	// Walk caps the per-pair distance each force kind may move a point
	// in one step (Δ_max of spec.md §4.3).
	Walk Thresholds
	// Cursor is this step's normalized position within the round,
	// in [0, 1]; it drives the temperature decay (spec.md §4.3 step 5).
	Cursor float64
}

// Step runs one force-directed relaxation step: it computes F_int,
// F_min, F_max from the current positions P and target interaction
// matrix W, superposes and tempers them, and returns P + F. band may be
// nil to disable the min/max-distance forces (spec.md §4.3 invariant:
// "If s_min and s_max are both None, F_min = F_max = 0").
func Step(P, W [][]float64, band *Band, p Params) (next [][]float64, walked [][]float64, err error) {
	n := len(P)
	if n == 0 {
		return nil, nil, nil
	}
	d := len(P[0])

	R := geom.DistanceMatrix(P)
	U := geom.UnitaryVectors(P, R)
	I := geom.InteractionMatrix(R)

	fInt, walked := interactionForce(R, U, I, W, p.WeightRelativeThreshold, p.Walk.Interaction)

	fMin := la.MatAlloc(n, d)
	fMax := la.MatAlloc(n, d)
	if band != nil {
		fMin = minDistanceForce(P, R, U, band.Min, p.Walk.Min)
		fMax = maxRadialForce(P, band.Max, p.Walk.Max)
	}

	temper := Temperature(p.Cursor)
	next = la.MatAlloc(n, d)
	for i := 0; i < n; i++ {
		for k := 0; k < d; k++ {
			f := (fInt[i][k] + fMin[i][k] + fMax[i][k]) * temper
			if math.IsNaN(f) || math.IsInf(f, 0) {
				chk.Panic("forces: non-finite force at atom %d, dim %d: %v", i, k, f)
			}
			next[i][k] = P[i][k] + f
		}
	}
	return next, walked, nil
}

// interactionForce implements spec.md §4.3 steps 2a-2e.
func interactionForce(R, U [][]float64, I, W [][]float64, thetaW, deltaMax float64) (force [][]float64, walked [][]float64) {
	n := len(R)
	d := 0
	if n > 0 {
		d = len(U[0][0])
	}
	force = la.MatAlloc(n, d)
	walked = la.MatAlloc(n, n)

	// 2b: distance-walk limiter.
	modulatedW := la.MatAlloc(n, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			rTarget := targetDistance(W[i][j])
			delta := (R[i][j] - rTarget) / 2
			clipped := clip(delta, -deltaMax, deltaMax)
			rModulated := R[i][j] - 2*clipped

			var rRectified float64
			switch {
			case clipped == 0:
				rRectified = R[i][j]
			case clipped > 0:
				rRectified = math.Max(rModulated, rTarget)
			default:
				rRectified = math.Min(rModulated, rTarget)
			}
			wModulated := currentWeight(rRectified)
			modulatedW[i][j] = wModulated
			modulatedW[j][i] = wModulated
		}
	}

	// 2c: weight-difference limiter with smooth reduction of small
	// differences, so they do not starve the larger ones of budget.
	diff := la.MatAlloc(n, n)
	maxAbs := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			diff[i][j] = modulatedW[i][j] - I[i][j]
			if a := math.Abs(diff[i][j]); a > maxAbs {
				maxAbs = a
			}
		}
	}
	tau := thetaW * maxAbs
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			x := diff[i][j]
			if tau > 0 && math.Abs(x) < tau {
				diff[i][j] = smoothReduce(x, tau)
			}
		}
	}

	// 2d/2e: step target weights/distances, per-pair force vectors and
	// walk magnitudes.
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			stepWeight := I[i][j] + (1-thetaW)*diff[i][j]
			stepDistance := targetDistance(stepWeight)
			walked[i][j] = math.Abs(R[i][j]-stepDistance) / 2
			for k := 0; k < d; k++ {
				force[i][k] += diff[i][j] * U[i][j][k]
			}
		}
	}
	return force, walked
}

// targetDistance is W^{-1/6}: the distance at which interaction weight w
// would be reproduced exactly. w == 0 has no finite target distance;
// interactionForce calls this for every pair, including w == 0 pairs, and
// for those the largest finite value is returned, which currentWeight
// maps back to a zero weight.
func targetDistance(w float64) float64 {
	if w <= 0 {
		return math.MaxFloat64
	}
	return math.Pow(1/w, 1.0/6.0)
}

// currentWeight is r^-6, clipped rather than allowed to reach +Inf.
func currentWeight(r float64) float64 {
	if r < 1e-12 {
		return math.MaxFloat64
	}
	return 1.0 / math.Pow(r, 6)
}

// smoothReduce implements spec.md §4.3 step 2c's s(x):
//
//	s(x) = (1 - sin((1 - |x/tau|) * pi/2)) * sign(x) * tau
func smoothReduce(x, tau float64) float64 {
	ratio := math.Abs(x) / tau
	return (1 - math.Sin((1-ratio)*math.Pi/2)) * sign(x) * tau
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// minDistanceForce pushes apart pairs closer than sMin, proportional to
// the violation and capped by deltaMax (spec.md §4.3 step 3).
func minDistanceForce(P, R, U [][]float64, sMin, deltaMax float64) [][]float64 {
	n := len(P)
	d := 0
	if n > 0 {
		d = len(P[0])
	}
	force := la.MatAlloc(n, d)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j || R[i][j] == 0 {
				// spec.md §4.3 invariant: a coincidence (R_ij == 0) is
				// never resolved here; only the next step's finite R
				// can trigger repulsion.
				continue
			}
			if R[i][j] >= sMin {
				continue
			}
			magnitude := math.Min(sMin-R[i][j], deltaMax)
			for k := 0; k < d; k++ {
				force[i][k] -= magnitude * U[i][j][k]
			}
		}
	}
	return force
}

// maxRadialForce pulls atoms whose radius exceeds sMax/2 back toward the
// centroid, capped by deltaMax (spec.md §4.3 step 4).
func maxRadialForce(P [][]float64, sMax, deltaMax float64) [][]float64 {
	n := len(P)
	d := 0
	if n > 0 {
		d = len(P[0])
	}
	force := la.MatAlloc(n, d)
	c := geom.Centroid(P)
	halfBand := sMax / 2
	for i := 0; i < n; i++ {
		radius := 0.0
		dir := make([]float64, d)
		for k := 0; k < d; k++ {
			dir[k] = P[i][k] - c[k]
			radius += dir[k] * dir[k]
		}
		radius = math.Sqrt(radius)
		if radius <= halfBand || radius < 1e-12 {
			continue
		}
		magnitude := math.Min(radius-halfBand, deltaMax)
		for k := 0; k < d; k++ {
			force[i][k] -= magnitude * dir[k] / radius
		}
	}
	return force
}

// ConvergenceWarning reports that a coincidence could not be resolved by
// F_min within the configured number of consecutive steps (spec.md §4.3
// Failure, §7). It is attached to a Result, never returned as a fatal
// error.
type ConvergenceWarning struct {
	Steps int
	Pair  [2]int
}

func (w *ConvergenceWarning) Error() string {
	return fmt.Sprintf("forces: pair (%d,%d) unresolved after %d consecutive steps", w.Pair[0], w.Pair[1], w.Steps)
}
