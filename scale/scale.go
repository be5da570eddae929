// Package scale implements the BLADE scale controller (spec.md §4.4,
// component C4): after each force-assembler step it finds the closed-form
// factor α* that best rescales the current layout onto the target
// interaction matrix, applies it, and drives the min/max-distance band
// schedule.
package scale

import (
	"math"
	"sort"

	"github.com/pasqal-io/qoolqit/forces"
	"github.com/pasqal-io/qoolqit/geom"
)

// DegenerateConfigurationError reports that α* was non-finite or
// non-positive — spec.md §4.4/§7, typically from a collapsed layout
// where every position coincides.
type DegenerateConfigurationError struct {
	Alpha float64
}

func (e *DegenerateConfigurationError) Error() string {
	return "scale: degenerate configuration: alpha* is non-finite or non-positive"
}

// BestScaling computes α* minimizing ||αW - I(αP)|| in closed form
// (spec.md §4.4), with percentile-based outlier filtering so a small
// fraction of ill-fitting pairs cannot skew the result.
func BestScaling(P, W [][]float64) (float64, error) {
	R := geom.DistanceMatrix(P)
	I := geom.InteractionMatrix(R)
	n := len(P)
	if n < 2 {
		return 0, &DegenerateConfigurationError{}
	}

	diffs := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			diffs = append(diffs, I[i][j]-W[i][j])
		}
	}

	p := 100.0 - 20.0/float64(n-1)
	ceiling := math.Max(0, percentile(diffs, p))

	num, den := 0.0, 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			delta := I[i][j] - W[i][j]
			value := I[i][j]
			if delta > ceiling {
				value = W[i][j] + ceiling
			}
			num += value * value
			den += value * W[i][j]
		}
	}
	if den == 0 {
		return 0, &DegenerateConfigurationError{}
	}
	alpha := math.Pow(num/den, 1.0/6.0)
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) || alpha <= 0 {
		return 0, &DegenerateConfigurationError{Alpha: alpha}
	}
	return alpha, nil
}

// percentile computes the p-th percentile of values using linear
// interpolation between closest ranks, matching numpy.percentile's
// default behavior (the source this is ported from relies on it).
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Ratios bundles the band-schedule parameters: ρ_0 (starting ratio) and
// ρ_f (final ratio). The schedule is disabled entirely when Enabled is
// false; the embed facade leaves it false when no final ratio is
// configured (spec.md §9 Open Questions).
type Ratios struct {
	StartingRatio float64
	FinalRatio    float64
	Enabled       bool
}

// RatioAt implements spec.md §4.4's ρ(u) = ρ_f + (1-u)(ρ_0 - ρ_f).
func (r Ratios) RatioAt(cursor float64) float64 {
	return r.FinalRatio + (1-cursor)*(r.StartingRatio-r.FinalRatio)
}

// Controller tracks the scale controller's state across steps: the
// current minimum distance the band schedule has converged to so far
// (the source's DistancesConstraintsCalculator.current_min).
type Controller struct {
	Ratios     Ratios
	CurrentMin float64
}

// Step applies α* to P in place, returns α*, and — if a band schedule is
// configured — the updated Band for the given cursor (spec.md §4.4).
func (c *Controller) Step(P, W [][]float64, cursor float64) (alpha float64, band *forces.Band, err error) {
	alpha, err = BestScaling(P, W)
	if err != nil {
		return 0, nil, err
	}
	for i := range P {
		for k := range P[i] {
			P[i][k] *= alpha
		}
	}
	if !c.Ratios.Enabled {
		return alpha, nil, nil
	}
	c.CurrentMin *= alpha
	ratio := c.Ratios.RatioAt(cursor)
	band = &forces.Band{Min: c.CurrentMin, Max: c.CurrentMin * ratio}
	return alpha, band, nil
}
