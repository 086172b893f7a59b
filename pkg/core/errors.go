package core

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every error returned by this package (and by the packages
// built on top of it) wraps exactly one of these sentinels, so callers can
// classify failures with errors.Is regardless of the message.
var (
	// ErrValidation reports negative identifiers, non-positive lengths,
	// capacities or vehicle counts, and other malformed arguments.
	ErrValidation = errors.New("validation error")

	// ErrNotFound reports an unknown intersection, road or edge direction.
	ErrNotFound = errors.New("not found")

	// ErrConflict reports a duplicate road id, a duplicate edge or an
	// already installed signal.
	ErrConflict = errors.New("conflict")

	// ErrCapacity reports a violated occupancy bound or an exhausted
	// intersection budget.
	ErrCapacity = errors.New("capacity exceeded")

	// ErrState reports an operation that is not allowed in the current
	// signal mode.
	ErrState = errors.New("invalid state")
)

// Kind returns a short label for the sentinel wrapped by err.
// Used as a metric label and in log lines.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrCapacity):
		return "capacity"
	case errors.Is(err, ErrState):
		return "state"
	default:
		return "internal"
	}
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}

func conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConflict}, args...)...)
}

func capacityf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrCapacity}, args...)...)
}

func statef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrState}, args...)...)
}
