package domain

import (
	"errors"
	"fmt"
)

// InputError is a client mistake caught at the boundary (empty question,
// bad method, malformed body). It never reaches the orchestrator.
type InputError struct {
	Message string
}

func NewInputError(msg string) *InputError {
	return &InputError{Message: msg}
}

func (e *InputError) Error() string { return e.Message }

// BackendErrorKind classifies reasoning backend failures.
type BackendErrorKind string

const (
	BackendUnavailable BackendErrorKind = "unavailable"
	BackendRateLimited BackendErrorKind = "rate_limited"
	BackendMalformed   BackendErrorKind = "malformed"
	BackendTimeout     BackendErrorKind = "timeout"
)

// BackendError is fatal to the current request and is never retried.
type BackendError struct {
	Kind BackendErrorKind
	Err  error
}

func (e *BackendError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("backend %s", e.Kind)
	}
	return fmt.Sprintf("backend %s: %v", e.Kind, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// ErrMissingCredential is returned when the primary model credential is absent.
var ErrMissingCredential = errors.New("missing model backend credential")

// IsInputError reports whether err is (or wraps) an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
