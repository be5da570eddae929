package embed

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned by validate when W is not square, not
// symmetric within tolerance, has a negative entry, has diagonal mass,
// or when Config.Dimensions does not end at 2 (spec.md §7).
type ErrInvalidInput struct {
	Reason string
}

func (e *ErrInvalidInput) Error() string {
	return fmt.Sprintf("embed: invalid input: %s", e.Reason)
}

// ErrCancelled is returned when the run was stopped by a cooperative
// cancellation signal (spec.md §5, §7).
var ErrCancelled = errors.New("embed: cancelled")
