package errs

import (
	"errors"
	"fmt"
)

// ErrTransitionIsInvalid is the sentinel for state changes along an edge that does not exist.
var ErrTransitionIsInvalid = errors.New("transition is invalid")

// TransitionIsInvalidError reports the rejected edge of a state machine.
type TransitionIsInvalidError struct {
	From  string
	To    string
	Cause error
}

// NewTransitionIsInvalidError creates a TransitionIsInvalidError for the edge from -> to.
func NewTransitionIsInvalidError(from, to string) *TransitionIsInvalidError {
	return &TransitionIsInvalidError{From: from, To: to}
}

// NewTransitionIsInvalidErrorWithCause creates a TransitionIsInvalidError carrying the underlying cause.
func NewTransitionIsInvalidErrorWithCause(from, to string, cause error) *TransitionIsInvalidError {
	return &TransitionIsInvalidError{From: from, To: to, Cause: cause}
}

func (e *TransitionIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s -> %s", ErrTransitionIsInvalid, sanitize(e.From), sanitize(e.To)), e.Cause)
}

func (e *TransitionIsInvalidError) Unwrap() error {
	return ErrTransitionIsInvalid
}
