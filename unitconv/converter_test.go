package unitconv

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestFromEnergy(tst *testing.T) {
	chk.PrintTitle("FromEnergy")

	c, err := FromEnergy(5420.0, 4*math.Pi)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	chk.Scalar(tst, "Time", 1e-3, c.Time, 1000.0/(4*math.Pi))
	chk.Scalar(tst, "Distance", 1e-3, c.Distance, math.Pow(5420.0/(4*math.Pi), 1.0/6.0))

	c2, err := c.WithTimeUnit(10)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	chk.Scalar(tst, "Energy after set_time_unit(10)", 1e-12, c2.Energy, 100.0)
	chk.Scalar(tst, "Distance after set_time_unit(10)", 1e-12, c2.Distance, math.Pow(5420.0/100.0, 1.0/6.0))
}

func TestInvariantsHoldAfterEverySetter(tst *testing.T) {
	chk.PrintTitle("invariants hold after every setter")

	c, err := FromTime(5420.0, 2.5)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	for _, step := range []func(Converter) (Converter, error){
		func(c Converter) (Converter, error) { return c.WithEnergyUnit(12.0) },
		func(c Converter) (Converter, error) { return c.WithDistanceUnit(3.0) },
		func(c Converter) (Converter, error) { return c.WithTimeUnit(7.0) },
	} {
		c, err = step(c)
		if err != nil {
			tst.Fatalf("unexpected error: %v", err)
		}
		if err := c.Validate(); err != nil {
			tst.Fatalf("invariant violated: %v", err)
		}
	}
}

func TestDomainErrorOnNonPositive(tst *testing.T) {
	chk.PrintTitle("domain error on non-positive input")

	if _, err := FromTime(5420.0, -1.0); err == nil {
		tst.Fatalf("expected a DomainError")
	} else if _, ok := err.(*DomainError); !ok {
		tst.Fatalf("expected *DomainError, got %T", err)
	}
}

func TestValidateRejectsBrokenInvariant(tst *testing.T) {
	chk.PrintTitle("validate rejects a directly-constructed broken triple")

	broken := Converter{C6: 5420.0, Time: 2.0, Energy: 2.0, Distance: 3.0}
	err := broken.Validate()
	if err == nil {
		tst.Fatalf("expected an InvariantViolationError")
	}
	if _, ok := err.(*InvariantViolationError); !ok {
		tst.Fatalf("expected *InvariantViolationError, got %T", err)
	}
}

func TestWeightedDetuningValidate(tst *testing.T) {
	chk.PrintTitle("weighted detuning rejects positive weight")

	ok := WeightedDetuning{Weights: map[string]float64{"a": -1.0, "b": -0.5}, Waveform: ConstantSchedule(-1.0)}
	if err := ok.Validate(); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}

	bad := WeightedDetuning{Weights: map[string]float64{"a": 1.0}, Waveform: ConstantSchedule(-1.0)}
	if err := bad.Validate(); err == nil {
		tst.Fatalf("expected a validation error for positive weight")
	}
}
