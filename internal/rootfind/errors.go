package rootfind

import (
	"errors"
	"fmt"
)

// RootFindError reports that no root was found within the iteration bounds.
type RootFindError struct {
	// Guess is the starting point the solve began from.
	Guess float64

	// Iterations counts residual evaluations across both stages.
	Iterations int

	// Reason describes why each stage gave up.
	Reason string
}

func (e *RootFindError) Error() string {
	return fmt.Sprintf("root find from %g failed after %d evaluations: %s", e.Guess, e.Iterations, e.Reason)
}

// IsRootFindError reports whether err wraps a RootFindError.
func IsRootFindError(err error) bool {
	var re *RootFindError
	return errors.As(err, &re)
}
