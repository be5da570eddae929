// Package round implements the BLADE round scheduler (spec.md §4.5,
// component C5): it runs K rounds of force-assembler/scale-controller
// steps over a descending dimension schedule, projecting down between
// rounds and returning the final 2-D layout.
package round

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/cpmech/gosl/io"
	"github.com/pasqal-io/qoolqit/forces"
	"github.com/pasqal-io/qoolqit/geom"
	"github.com/pasqal-io/qoolqit/scale"
)

// ErrCancelled is returned when the caller's Cancel channel fired
// between steps (spec.md §5, §7).
var ErrCancelled = errors.New("round: cancelled")

// TruncatedStartingPositionsWarning reports that the caller's
// StartingPositions had more columns than the first round's dimension
// and were truncated to fit (spec.md §4.5 step 1: "if >d_1, truncate
// and warn"). It is attached to a Result, never returned as a fatal
// error.
type TruncatedStartingPositionsWarning struct {
	Got, Want int
}

func (w *TruncatedStartingPositionsWarning) Error() string {
	return fmt.Sprintf("round: starting positions had %d dimensions, truncated to %d", w.Got, w.Want)
}

// maxCoincidentSteps bounds how many consecutive steps a pair may remain
// coincident before a ConvergenceWarning is recorded (spec.md §4.3
// Failure).
const maxCoincidentSteps = 20

// Config bundles the round scheduler's inputs (spec.md §4.5/§6).
type Config struct {
	Dimensions              []int
	StepsPerRound           int
	StartingPositions       [][]float64
	PCA                     bool
	Seed                    *int64
	WeightRelativeThreshold forces.Schedule
	MaxDistanceToWalk       forces.WalkSchedule
	Band                    scale.Ratios
	StartingMin             float64
	Cancel                  <-chan struct{}
	Observer                Observer
	Verbose                 bool
}

// Run executes the full K*S-step relaxation and returns the final n x 2
// layout (spec.md §4.5). Termination is exact: K*S steps, no early stop.
func Run(W [][]float64, cfg Config) (P [][]float64, warnings []error, err error) {
	n := len(W)
	if n == 0 {
		return nil, nil, nil
	}
	obs := cfg.Observer
	if obs == nil {
		obs = NoopObserver{}
	}

	var startWarning error
	P, startWarning, err = initialPositions(n, cfg)
	if err != nil {
		return nil, nil, err
	}
	if startWarning != nil {
		warnings = append(warnings, startWarning)
	}

	controller := &scale.Controller{Ratios: cfg.Band, CurrentMin: cfg.StartingMin}
	coincidentStreak := 0

	// band holds the confinement in effect for the *next* force-assembler
	// step; it is seeded from the starting ratio (spec.md §4.4: ρ(0) =
	// ρ_0) before any C4 call has run, then replaced by each
	// controller.Step's output.
	var band *forces.Band
	if controller.Ratios.Enabled {
		band = &forces.Band{Min: controller.CurrentMin, Max: controller.CurrentMin * controller.Ratios.RatioAt(0)}
	}

	dims := cfg.Dimensions
	for roundIdx, d := range dims {
		if cfg.Verbose {
			io.Pf("round %d: dimension=%d\n", roundIdx, d)
		}
		for step := 0; step < cfg.StepsPerRound; step++ {
			select {
			case <-cfg.Cancel:
				return P, warnings, ErrCancelled
			default:
			}

			cursor := 0.0
			if cfg.StepsPerRound > 1 {
				cursor = float64(step) / float64(cfg.StepsPerRound-1)
			}
			rMax := geom.MaxRadialDistance(P)
			walk := forces.UnboundedWalk()(cursor, rMax)
			if cfg.MaxDistanceToWalk != nil {
				walk = cfg.MaxDistanceToWalk(cursor, rMax)
			}
			thetaW := 0.1
			if cfg.WeightRelativeThreshold != nil {
				thetaW = cfg.WeightRelativeThreshold.At(cursor)
			}

			P, _, err = forces.Step(P, W, band, forces.Params{
				WeightRelativeThreshold: thetaW,
				Walk:                    walk,
				Cursor:                  cursor,
			})
			if err != nil {
				return P, warnings, err
			}

			if geom.MinPairDistance(P) < 1e-9 {
				coincidentStreak++
				if coincidentStreak == maxCoincidentSteps {
					warning := &forces.ConvergenceWarning{Steps: coincidentStreak}
					R := geom.DistanceMatrix(P)
					closest := math.Inf(1)
					for i := range R {
						for j := i + 1; j < len(R); j++ {
							if R[i][j] < closest {
								closest, warning.Pair = R[i][j], [2]int{i, j}
							}
						}
					}
					warnings = append(warnings, warning)
				}
			} else {
				coincidentStreak = 0
			}

			_, band, err = controller.Step(P, W, cursor)
			if err != nil {
				return P, warnings, err
			}

			obs.OnStep(StepEvent{RoundIndex: roundIdx, Step: step, Dimension: d, Cursor: cursor, Positions: P, Band: band})
		}

		if roundIdx+1 < len(dims) {
			next := dims[roundIdx+1]
			if next < d {
				if cfg.PCA && next == 2 {
					P = ProjectPCA(P)
				} else {
					P = dropToDim(P, next)
				}
			}
		}
	}
	return P, warnings, nil
}

// initialPositions implements spec.md §4.5 step 1: use the caller's
// starting positions (right-padded or truncated-with-warning to the
// first dimension), or sample uniformly from a ball whose radius is
// chosen so the expected minimum pairwise distance is approximately 1.
func initialPositions(n int, cfg Config) (P [][]float64, warning error, err error) {
	d1 := cfg.Dimensions[0]
	if cfg.StartingPositions != nil {
		P, warning = adjustDimension(cfg.StartingPositions, d1)
		return P, warning, nil
	}

	var seed int64 = 1
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	// Heuristic radius: for n points uniform in a d-ball, nearest-
	// neighbor spacing scales roughly as r0 * n^(-1/d); solving for an
	// expected spacing of 1 gives r0 ~ n^(1/d).
	r0 := math.Pow(float64(n), 1.0/float64(d1))

	P = make([][]float64, n)
	for i := 0; i < n; i++ {
		P[i] = sampleBall(rng, d1, r0)
	}
	return P, nil, nil
}

// adjustDimension right-pads with zeros, or truncates and returns a
// TruncatedStartingPositionsWarning, starting positions whose column
// count doesn't match d (spec.md §4.5 step 1).
func adjustDimension(P [][]float64, d int) ([][]float64, error) {
	var warning error
	out := make([][]float64, len(P))
	for i, row := range P {
		switch {
		case len(row) == d:
			out[i] = append([]float64(nil), row...)
		case len(row) > d:
			if warning == nil {
				warning = &TruncatedStartingPositionsWarning{Got: len(row), Want: d}
			}
			out[i] = append([]float64(nil), row[:d]...)
		default:
			newRow := make([]float64, d)
			copy(newRow, row)
			out[i] = newRow
		}
	}
	return out, warning
}

// sampleBall draws one point uniformly from a d-dimensional ball of
// radius r0, via Gaussian direction + uniform radius (the standard
// rejection-free construction).
func sampleBall(rng *rand.Rand, d int, r0 float64) []float64 {
	v := make([]float64, d)
	norm := 0.0
	for k := 0; k < d; k++ {
		v[k] = rng.NormFloat64()
		norm += v[k] * v[k]
	}
	norm = math.Sqrt(norm)
	if norm < 1e-300 {
		norm = 1
	}
	radius := r0 * math.Pow(rng.Float64(), 1.0/float64(d))
	for k := 0; k < d; k++ {
		v[k] = v[k] / norm * radius
	}
	return v
}
