package embed

import (
	"github.com/pasqal-io/qoolqit/forces"
	"github.com/pasqal-io/qoolqit/round"
)

// Observer is re-exported from round so callers of this package never
// need to import round directly for the common case.
type Observer = round.Observer

// NoopObserver is re-exported from round.
type NoopObserver = round.NoopObserver

// StepEvent is re-exported from round.
type StepEvent = round.StepEvent

// Config is the embedder's configuration record (spec.md §6). The fields
// from MaxMinDistRatio through Seed correspond 1:1 to the entries of
// spec.md §6's table; Cancel, Observer and Verbose are additions. This is
// the compile-time mapping that replaces the source's reflection-bound
// config fields (spec.md §9 REDESIGN FLAGS).
type Config struct {
	// MaxMinDistRatio sets ρ_f (FinalRatio). nil disables band
	// constraints entirely: only the interaction force acts
	// (spec.md §9 Open Questions).
	MaxMinDistRatio *float64

	// Dimensions is the descending dimension schedule; must end at 2.
	// Defaults to (5, 4, 3, 2, 2, 2).
	Dimensions []int

	// StartingPositions optionally seeds the first round; defaults to a
	// random ball draw.
	StartingPositions [][]float64

	// PCA enables the top-2 principal-axis projection at the final
	// dimension drop.
	PCA bool

	// StepsPerRound is the number of steps run at each dimension.
	// Defaults to 200.
	StepsPerRound int

	// WeightRelativeThreshold supplies θ_w(cursor). Defaults to a
	// constant 0.1.
	WeightRelativeThreshold forces.Schedule

	// MaxDistanceToWalk supplies Δ_max(cursor, r_max), scalar or
	// per-kind. Defaults to +Inf (unbounded).
	MaxDistanceToWalk forces.WalkSchedule

	// StartingRatioFactor sets ρ_0 = factor * ρ_f. Defaults to 2.
	StartingRatioFactor float64

	// Seed seeds the starting-ball RNG for reproducibility.
	Seed *int64

	// Cancel is checked between steps for cooperative cancellation.
	Cancel <-chan struct{}

	// Observer receives a StepEvent after every step; defaults to
	// NoopObserver.
	Observer Observer

	// Verbose gates optional human-readable trace output.
	Verbose bool
}

var defaultDimensions = []int{5, 4, 3, 2, 2, 2}

// withDefaults returns a copy of cfg with every unset field replaced by
// its spec.md §6 default.
func (cfg Config) withDefaults() Config {
	if cfg.Dimensions == nil {
		cfg.Dimensions = append([]int(nil), defaultDimensions...)
	}
	if cfg.StepsPerRound == 0 {
		cfg.StepsPerRound = 200
	}
	if cfg.WeightRelativeThreshold == nil {
		cfg.WeightRelativeThreshold = forces.ConstantSchedule(0.1)
	}
	if cfg.MaxDistanceToWalk == nil {
		cfg.MaxDistanceToWalk = forces.UnboundedWalk()
	}
	if cfg.StartingRatioFactor == 0 {
		cfg.StartingRatioFactor = 2
	}
	if cfg.Observer == nil {
		cfg.Observer = NoopObserver{}
	}
	return cfg
}

func (cfg Config) validate() error {
	if len(cfg.Dimensions) == 0 {
		return &ErrInvalidInput{Reason: "dimensions schedule must not be empty"}
	}
	if cfg.Dimensions[len(cfg.Dimensions)-1] != 2 {
		return &ErrInvalidInput{Reason: "dimensions schedule must end at 2"}
	}
	prev := cfg.Dimensions[0]
	for _, d := range cfg.Dimensions[1:] {
		if d > prev {
			return &ErrInvalidInput{Reason: "dimensions schedule must be non-increasing"}
		}
		prev = d
	}
	return nil
}
