package services

import (
	"errors"
	"fmt"
)

// ErrModelUnavailable means the classifier artifact could not be loaded
// at startup. The process must refuse to serve predictions rather than
// degrade silently.
var ErrModelUnavailable = errors.New("risk model unavailable")

// ErrEvaluationNotFound is returned when a requested evaluation id does
// not exist. Kept distinct from persistence failures.
var ErrEvaluationNotFound = errors.New("evaluation not found")

// ValidationError marks malformed caller input. Never retried, never
// corrected by substituting defaults.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PersistenceError wraps a failed round-trip to the backing store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
