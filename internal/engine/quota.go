package engine

import (
	"errors"
	"fmt"
)

// passQuota counts library scans for one call and enforces the pass cap.
//
// Reaching the cap ends propagation; callers treat PassLimitError as a stop
// signal, never as a failure to report.
type passQuota struct {
	maxPasses int
	current   int
}

func newPassQuota(maxPasses int) *passQuota {
	return &passQuota{maxPasses: maxPasses}
}

// Check increments the pass counter and validates it against the cap.
func (q *passQuota) Check() error {
	if q.current >= q.maxPasses {
		return &PassLimitError{Passes: q.current, Limit: q.maxPasses}
	}
	q.current++
	return nil
}

// Current returns the number of passes started.
func (q *passQuota) Current() int {
	return q.current
}

// PassLimitError signals that propagation stopped at the pass cap.
type PassLimitError struct {
	Passes int
	Limit  int
}

func (e *PassLimitError) Error() string {
	return fmt.Sprintf("pass limit reached (%d >= %d)", e.Passes, e.Limit)
}

// IsPassLimit reports whether err wraps a PassLimitError.
func IsPassLimit(err error) bool {
	var pe *PassLimitError
	return errors.As(err, &pe)
}
