package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrPersonNotFound is returned when no record exists for the requested person.
	ErrPersonNotFound = errors.New("person not found")
	// ErrDecode indicates a persisted or incoming record failed structured decoding.
	ErrDecode = errors.New("record decode failed")
)

// InputError reports a caller-correctable problem with a required input.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Field, e.Reason)
}

// NewInputError builds an InputError for the named field.
func NewInputError(field, reason string) *InputError {
	return &InputError{Field: field, Reason: reason}
}

// ValidationError reports a data-model invariant violated by a decoded record.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Constraint)
}
