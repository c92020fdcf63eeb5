package services

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that an id did not resolve to a record.
var ErrNotFound = errors.New("not found")

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func missingField(field string) error {
	return &ValidationError{Field: field, Reason: "required"}
}

// TransportError reports a network or storage failure, carrying the
// server-provided message when one was available.
type TransportError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s failed", e.Op)
}

func (e *TransportError) Unwrap() error { return e.Err }
