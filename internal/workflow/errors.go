package workflow

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized      = errors.New("actor is not allowed to perform this action")
	ErrInvalidTransition = errors.New("no transition defined from current status")
	ErrValidationFailed  = errors.New("request data is not valid for this transition")
)

// TransitionError carries the rejected input alongside one of the sentinel
// errors above, so callers can match with errors.Is and still log context.
type TransitionError struct {
	Kind    error
	From    Status
	Role    Role
	Outcome Outcome
	Reason  string
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("%s: %s %s from %s", e.Kind, e.Role, e.Outcome, e.From)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *TransitionError) Unwrap() error {
	return e.Kind
}
