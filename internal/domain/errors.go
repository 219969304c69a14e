package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrInvalidBody is returned when the request body is not a JSON object.
	ErrInvalidBody = errors.New("invalid request body")

	// ErrValidation is wrapped by every FieldError so callers can test for
	// any field-level failure with errors.Is.
	ErrValidation = errors.New("validation failed")
)

// FieldRule identifies which validation rule a field broke.
type FieldRule string

// Field rules, in the order they are checked for a single field.
const (
	RuleMissing   FieldRule = "missing"
	RuleWrongType FieldRule = "wrong_type"
	RuleEmpty     FieldRule = "empty"
	RuleTooLong   FieldRule = "too_long"
)

// FieldError reports the first field that failed validation and the rule it
// failed.
type FieldError struct {
	Field string
	Rule  FieldRule
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Rule)
}

// Unwrap allows errors.Is(err, ErrValidation).
func (e *FieldError) Unwrap() error {
	return ErrValidation
}

// Message returns the client-facing description of the failure.
func (e *FieldError) Message() string {
	switch e.Rule {
	case RuleMissing:
		return fmt.Sprintf("Field %q is required.", e.Field)
	case RuleWrongType:
		return fmt.Sprintf("Field %q must be a string.", e.Field)
	case RuleEmpty:
		return fmt.Sprintf("Field %q cannot be empty.", e.Field)
	case RuleTooLong:
		return fmt.Sprintf("Field %q exceeds the %d character limit.", e.Field, MaxFieldLength)
	default:
		return fmt.Sprintf("Field %q is invalid.", e.Field)
	}
}
