package errors

import (
	"fmt"
	"strings"
)

// FieldError is a single validation failure tied to a field or path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects multiple validation failures so callers can
// report everything wrong with an input at once, which matters for
// snapshot imports where one bad document can carry many problems.
type ValidationErrors struct {
	errors []FieldError
}

// NewValidationErrors creates an empty collection.
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{errors: []FieldError{}}
}

// Add records a failure for a field.
func (v *ValidationErrors) Add(field, message string) {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

// Addf records a failure with a formatted message.
func (v *ValidationErrors) Addf(field, format string, args ...interface{}) {
	v.Add(field, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any failures were recorded.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.errors) > 0
}

// All returns the recorded failures.
func (v *ValidationErrors) All() []FieldError {
	out := make([]FieldError, len(v.errors))
	copy(out, v.errors)
	return out
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if len(v.errors) == 0 {
		return "no validation errors"
	}

	parts := make([]string, len(v.errors))
	for i, e := range v.errors {
		parts[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsAppError converts the collection into a single validation AppError
// carrying every failure in its details.
func (v *ValidationErrors) AsAppError() *AppError {
	if !v.HasErrors() {
		return nil
	}

	fields := make([]map[string]interface{}, len(v.errors))
	for i, e := range v.errors {
		fields[i] = map[string]interface{}{
			"field":   e.Field,
			"message": e.Message,
		}
	}

	return NewValidationError(v.Error()).
		WithDetail("fields", fields).
		WithDetail("count", len(v.errors))
}
