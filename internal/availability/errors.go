package availability

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict means a concurrent activation won the race for the single active slot.
	ErrConflict = errors.New("conflicting schedule activation")
)

// ValidationError rejects input before anything is written. Day is set when the
// failure belongs to one entry of the weekly table.
type ValidationError struct {
	Field  string
	Day    *int
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Day != nil {
		return fmt.Sprintf("day %d: %s", *e.Day, e.Reason)
	}
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func invalidDay(day int, reason string, err error) *ValidationError {
	return &ValidationError{Field: "weekly_hours", Day: &day, Reason: reason, Err: err}
}
