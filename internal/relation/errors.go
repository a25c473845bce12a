package relation

import (
	"errors"
	"fmt"

	"github.com/BCalow/engine-initial-variables/internal/symbol"
)

// UnknownRelationError reports a lookup of a relation id that is not
// registered. It indicates a broken caller, not bad user input.
type UnknownRelationError struct {
	ID ID
}

func (e *UnknownRelationError) Error() string {
	return fmt.Sprintf("unknown relation %q", e.ID)
}

// MissingVariableError reports a residual evaluation that lacks one of the
// symbols the residual function reads.
type MissingVariableError struct {
	ID     ID
	Symbol symbol.Symbol
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("relation %q: missing variable %q", e.ID, e.Symbol)
}

// IsUnknownRelation reports whether err wraps an UnknownRelationError.
func IsUnknownRelation(err error) bool {
	var ue *UnknownRelationError
	return errors.As(err, &ue)
}

// IsMissingVariable reports whether err wraps a MissingVariableError.
func IsMissingVariable(err error) bool {
	var me *MissingVariableError
	return errors.As(err, &me)
}
