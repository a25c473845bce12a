package engine

import (
	"errors"
	"fmt"

	"github.com/BCalow/engine-initial-variables/internal/symbol"
)

// InvalidArgumentError reports malformed caller input: a mapping that is not
// symbol → number, an empty symbol, or a non-finite value.
//
// When several entries are malformed, Err aggregates the per-entry errors.
type InvalidArgumentError struct {
	// Symbol is the offending key. Empty for whole-document problems.
	Symbol symbol.Symbol

	// Reason is a human-readable description.
	Reason string

	// Err holds aggregated per-entry errors, if any.
	Err error
}

// Error implements the error interface.
func (e *InvalidArgumentError) Error() string {
	msg := "invalid argument"
	if e.Symbol != "" {
		msg = fmt.Sprintf("invalid argument %q", string(e.Symbol))
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the aggregated per-entry errors.
func (e *InvalidArgumentError) Unwrap() error {
	return e.Err
}

// IsInvalidArgument reports whether err wraps an InvalidArgumentError.
// Uses errors.As to handle wrapped errors.
func IsInvalidArgument(err error) bool {
	var ie *InvalidArgumentError
	return errors.As(err, &ie)
}
