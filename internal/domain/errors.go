package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when required input is missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrNetwork is returned when a backend request fails or is rejected.
	ErrNetwork = errors.New("network request failed")
	// ErrSession is returned when a remote operation runs without a session token.
	ErrSession = errors.New("no quiz session token")
	// ErrInputDisabled is returned for answers given after the question was resolved.
	ErrInputDisabled = errors.New("answer input is disabled")
	// ErrInvalidTransition is returned when an action does not apply to the current state.
	ErrInvalidTransition = errors.New("action not allowed in current state")
	// ErrStaleResponse is returned when a response belongs to an earlier question.
	ErrStaleResponse = errors.New("stale response discarded")
	// ErrInvalidAnswer indicates an answer index outside the options.
	ErrInvalidAnswer = errors.New("invalid answer index")
	// ErrNotFound indicates a missing key in the local store.
	ErrNotFound = errors.New("key not found")
)

// ValidationError describes a user-facing input problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NetworkError wraps a failed backend call. Status is zero for transport failures.
type NetworkError struct {
	Op     string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }
