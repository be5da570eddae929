// Package embed implements the BLADE embedder facade (spec.md §4.6,
// component C6): input validation, seeding, and the two concrete entry
// points (spec.md §9 REDESIGN FLAGS on the polymorphic embedder
// hierarchy) that drive the round scheduler and return centered 2-D
// coordinates.
package embed

import (
	"math"

	"github.com/pasqal-io/qoolqit/geom"
	"github.com/pasqal-io/qoolqit/round"
	"github.com/pasqal-io/qoolqit/scale"
)

// symmetryTolerance and validation tolerances per spec.md §4.6/§8.
const symmetryTolerance = 1e-7

// Result is the outcome of an embedding run.
type Result struct {
	// Positions holds the final n x 2 coordinates, centered at the
	// centroid within 1e-9 (spec.md §6).
	Positions [][]float64
	// Warnings carries non-fatal warnings: ConvergenceWarnings (spec.md
	// §7) and a TruncatedStartingPositionsWarning when the starting
	// positions had too many columns.
	Warnings []error
	// Cancelled is true when the run stopped early via Config.Cancel.
	Cancelled bool
}

// validate checks spec.md §4.6's invariants: W is 2-D, square,
// symmetric within symmetryTolerance, non-negative, and has a zero
// diagonal.
func validate(W [][]float64) error {
	n := len(W)
	for i, row := range W {
		if len(row) != n {
			return &ErrInvalidInput{Reason: "W must be square"}
		}
		if row[i] != 0 {
			return &ErrInvalidInput{Reason: "W must have a zero diagonal"}
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if W[i][j] < 0 || W[j][i] < 0 {
				return &ErrInvalidInput{Reason: "W must be non-negative"}
			}
			if math.Abs(W[i][j]-W[j][i]) > symmetryTolerance {
				return &ErrInvalidInput{Reason: "W must be symmetric within 1e-7"}
			}
		}
	}
	return nil
}

// Matrix embeds a dense target interaction matrix W into 2-D coordinates
// (spec.md §4.6's `run`). Input errors are detected before any
// allocation (spec.md §7 Policy).
func Matrix(W [][]float64, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}
	if err := validate(W); err != nil {
		return Result{}, err
	}

	roundCfg := round.Config{
		Dimensions:              cfg.Dimensions,
		StepsPerRound:           cfg.StepsPerRound,
		StartingPositions:       cfg.StartingPositions,
		PCA:                     cfg.PCA,
		Seed:                    cfg.Seed,
		WeightRelativeThreshold: cfg.WeightRelativeThreshold,
		MaxDistanceToWalk:       cfg.MaxDistanceToWalk,
		Cancel:                  cfg.Cancel,
		Observer:                cfg.Observer,
		Verbose:                 cfg.Verbose,
		StartingMin:             1.0,
	}
	if cfg.MaxMinDistRatio != nil {
		roundCfg.Band = scale.Ratios{
			Enabled:       true,
			FinalRatio:    *cfg.MaxMinDistRatio,
			StartingRatio: cfg.StartingRatioFactor * (*cfg.MaxMinDistRatio),
		}
	}

	P, warnings, err := round.Run(W, roundCfg)
	if err == round.ErrCancelled {
		return Result{Positions: center(P), Warnings: warnings, Cancelled: true}, ErrCancelled
	}
	if err != nil {
		return Result{}, err
	}
	return Result{Positions: center(P), Warnings: warnings}, nil
}

// center translates P so its centroid sits at the origin, within 1e-9
// (spec.md §6).
func center(P [][]float64) [][]float64 {
	if P == nil {
		return nil
	}
	c := geom.Centroid(P)
	out := make([][]float64, len(P))
	for i, row := range P {
		centered := make([]float64, len(row))
		for k, v := range row {
			centered[k] = v - c[k]
		}
		out[i] = centered
	}
	return out
}
