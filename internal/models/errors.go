package models

import (
	"errors"
	"fmt"
)

// ErrValidation is the sentinel all ValidationErrors unwrap to, so callers
// can match the class with errors.Is while still reading the detail.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a malformed or inconsistent Receipt/Allocation
// input. Subject carries the offending line, charge, or participant ID;
// it is empty for document-level violations.
type ValidationError struct {
	Subject string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("validation: %s", e.Reason)
	}
	return fmt.Sprintf("validation: %s: %s", e.Subject, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// validationErrorf builds a ValidationError for the given subject.
func validationErrorf(subject, format string, args ...any) *ValidationError {
	return &ValidationError{Subject: subject, Reason: fmt.Sprintf(format, args...)}
}
