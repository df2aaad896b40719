package session

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSessionClosed is returned when an operation does not fit the
	// session's current state.
	ErrSessionClosed = errors.New("session closed")
	// ErrClockRegression is matched by ClockRegressionError.
	ErrClockRegression = errors.New("clock regression")
)

// ClockRegressionError reports a sample timestamped before its predecessor.
type ClockRegressionError struct {
	Prev time.Time
	At   time.Time
}

func (e *ClockRegressionError) Error() string {
	return fmt.Sprintf("clock regression: sample at %s precedes previous sample at %s by %s",
		e.At.Format(time.RFC3339Nano), e.Prev.Format(time.RFC3339Nano), e.Prev.Sub(e.At))
}

// Is lets errors.Is match ErrClockRegression.
func (e *ClockRegressionError) Is(target error) bool {
	return target == ErrClockRegression
}

func stateError(op string, state State) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrSessionClosed, op, state)
}
