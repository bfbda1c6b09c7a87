package guarantee

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("guarantee not found")

	// ErrUnauthorized: the role can never perform this transition. Not retryable.
	ErrUnauthorized = errors.New("role not allowed to perform transition")

	// ErrInvalidTransition: the role is allowed in general, but the current
	// state has no outgoing edge with this name (e.g. approving twice).
	ErrInvalidTransition = errors.New("no such transition from current state")

	// ErrInvalidPayload: a required field is missing or out of range.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrConcurrentModification: the version read before the write no longer
	// matches. The caller should reload and may retry the same intent.
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// InvalidPayloadError names the field(s) at fault.
type InvalidPayloadError struct {
	Fields []string
}

func (e *InvalidPayloadError) Error() string {
	return fmt.Sprintf("invalid payload: %s", strings.Join(e.Fields, ", "))
}

func (e *InvalidPayloadError) Unwrap() error { return ErrInvalidPayload }

// InvalidTransitionError carries the state/transition pair for diagnostics.
type InvalidTransitionError struct {
	From       State
	Transition Transition
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transition %q not available from state %q", e.Transition, e.From)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// IsRetryable reports whether the same intent may succeed after a reload.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}
