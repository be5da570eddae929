package forces

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestStepNoNaNOrInf(tst *testing.T) {
	chk.PrintTitle("step never produces NaN/Inf")

	P := [][]float64{{0, 0}, {1, 0}, {0, 1}}
	W := [][]float64{
		{0, 0.5, 0.2},
		{0.5, 0, 0.3},
		{0.2, 0.3, 0},
	}
	next, walked, err := Step(P, W, nil, Params{WeightRelativeThreshold: 0.1, Walk: Unbounded(), Cursor: 0.2})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	for i := range next {
		for k := range next[i] {
			if math.IsNaN(next[i][k]) || math.IsInf(next[i][k], 0) {
				tst.Fatalf("non-finite position at %d,%d", i, k)
			}
		}
	}
	if walked == nil {
		tst.Fatalf("expected walk matrix")
	}
}

func TestStepWithoutBandHasNoMinMaxForce(tst *testing.T) {
	chk.PrintTitle("no band => only interaction force")

	P := [][]float64{{0, 0}, {5, 0}}
	W := [][]float64{{0, 0.9}, {0.9, 0}}
	next, _, err := Step(P, W, nil, Params{WeightRelativeThreshold: 0.1, Walk: Unbounded(), Cursor: 0})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	// points should move toward each other (W is large relative to
	// current separation) without any min/max confinement applied.
	if next[0][0] <= P[0][0] {
		tst.Fatalf("expected atom 0 to move toward atom 1, got %v", next[0])
	}
}

func TestMinDistanceForceSeparatesCoincidentPair(tst *testing.T) {
	chk.PrintTitle("min-distance force separates a near-coincident pair")

	P := [][]float64{{0, 0}, {1e-6, 0}, {10, 10}}
	W := [][]float64{
		{0, 0.01, 0.01},
		{0.01, 0, 0.01},
		{0.01, 0.01, 0},
	}
	band := &Band{Min: 1.0, Max: 100.0}
	p := Params{WeightRelativeThreshold: 0.1, Walk: Unbounded(), Cursor: 0}
	var err error
	for step := 0; step < 50; step++ {
		P, _, err = Step(P, W, band, p)
		if err != nil {
			tst.Fatalf("unexpected error at step %d: %v", step, err)
		}
	}
	dist := math.Hypot(P[0][0]-P[1][0], P[0][1]-P[1][1])
	if dist < 0.5 {
		tst.Fatalf("expected pair to separate toward s_min=1.0, got distance %g", dist)
	}
}

func TestTemperatureDecaysAcrossRound(tst *testing.T) {
	chk.PrintTitle("temperature decays monotonically")

	t0 := Temperature(0)
	t1 := Temperature(1)
	if t1 >= t0 {
		tst.Fatalf("expected temperature to decay: T(0)=%g T(1)=%g", t0, t1)
	}
	chk.Scalar(tst, "T(0)", 1e-12, t0, 1.0)
}

func TestScheduleVariants(tst *testing.T) {
	chk.PrintTitle("schedule variants")

	c := ConstantSchedule(0.1)
	chk.Scalar(tst, "constant at 0", 1e-15, c.At(0), 0.1)
	chk.Scalar(tst, "constant at 1", 1e-15, c.At(1), 0.1)

	l := LinearSchedule{Start: 0, End: 1}
	chk.Scalar(tst, "linear at 0.5", 1e-15, l.At(0.5), 0.5)

	custom := CustomSchedule(func(cursor float64) float64 { return cursor * cursor })
	chk.Scalar(tst, "custom at 0.5", 1e-15, custom.At(0.5), 0.25)
}
