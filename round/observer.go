package round

import "github.com/pasqal-io/qoolqit/forces"

// StepEvent is emitted once after every C3->C4 cycle (spec.md §9
// REDESIGN FLAGS: "replace [global logging/plot hooks] with an observer
// interface receiving a typed step event"). It carries enough state for
// a caller's plotting or metrics code to reconstruct the trajectory
// without this package depending on any plotting library itself.
type StepEvent struct {
	RoundIndex int
	Step       int
	Dimension  int
	Cursor     float64
	Positions  [][]float64
	Band       *forces.Band
}

// Observer receives StepEvents as the scheduler runs. The zero-value
// default is NoopObserver{}; plotting/metrics live outside this module
// per spec.md §1.
type Observer interface {
	OnStep(StepEvent)
}

// NoopObserver discards every event.
type NoopObserver struct{}

// OnStep implements Observer.
func (NoopObserver) OnStep(StepEvent) {}
