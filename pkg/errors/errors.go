// Package errors provides structured application errors for the mind map
// editor. Errors carry a category, a machine-readable code, optional
// details, and the HTTP status the REST layer should respond with.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorType categorizes an application error.
type ErrorType string

const (
	// ErrorTypeValidation indicates malformed or rejected input.
	ErrorTypeValidation ErrorType = "VALIDATION"
	// ErrorTypeNotFound indicates a reference to a map, node, or
	// relationship that does not exist.
	ErrorTypeNotFound ErrorType = "NOT_FOUND"
	// ErrorTypeConflict indicates a state conflict such as a duplicate
	// relationship or a stale snapshot version.
	ErrorTypeConflict ErrorType = "CONFLICT"
	// ErrorTypeRootViolation indicates an operation that is not defined
	// for the root node, such as deleting it or giving it a sibling.
	ErrorTypeRootViolation ErrorType = "ROOT_VIOLATION"
	// ErrorTypeCycleViolation indicates a reparent that would make a node
	// a descendant of itself.
	ErrorTypeCycleViolation ErrorType = "CYCLE_VIOLATION"
	// ErrorTypeEmptyHistory indicates an undo or redo with nothing to apply.
	ErrorTypeEmptyHistory ErrorType = "EMPTY_HISTORY"
	// ErrorTypeDragState indicates a drag gesture call that is invalid in
	// the gesture's current state, such as starting a second drag.
	ErrorTypeDragState ErrorType = "DRAG_STATE"
	// ErrorTypeUnauthorized indicates missing or invalid credentials.
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	// ErrorTypeForbidden indicates valid credentials without permission.
	ErrorTypeForbidden ErrorType = "FORBIDDEN"
	// ErrorTypeRateLimit indicates the caller exceeded its request budget.
	ErrorTypeRateLimit ErrorType = "RATE_LIMIT"
	// ErrorTypeInternal indicates an unexpected failure inside the editor.
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError is the error type returned across package boundaries.
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode attaches a machine-readable code and returns the error.
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetail attaches a single detail entry and returns the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails merges detail entries and returns the error.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{}, len(details))
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithCause attaches an underlying cause and returns the error.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func newAppError(errType ErrorType, message string, status int) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		HTTPStatus: status,
		StackTrace: captureStackTrace(),
	}
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *AppError {
	return newAppError(ErrorTypeValidation, message, http.StatusBadRequest)
}

// NewNotFoundError creates an error for a dangling reference.
func NewNotFoundError(resource string) *AppError {
	return newAppError(ErrorTypeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// NewConflictError creates a state conflict error.
func NewConflictError(message string) *AppError {
	return newAppError(ErrorTypeConflict, message, http.StatusConflict)
}

// NewRootViolationError creates an error for an operation the root node
// does not support.
func NewRootViolationError(message string) *AppError {
	return newAppError(ErrorTypeRootViolation, message, http.StatusUnprocessableEntity)
}

// NewCycleViolationError creates an error for a reparent that would
// introduce a cycle.
func NewCycleViolationError(message string) *AppError {
	return newAppError(ErrorTypeCycleViolation, message, http.StatusConflict)
}

// NewEmptyHistoryError creates an error for undo or redo on an empty stack.
func NewEmptyHistoryError(message string) *AppError {
	return newAppError(ErrorTypeEmptyHistory, message, http.StatusConflict)
}

// NewDragStateError creates an error for a drag call outside its
// expected gesture state.
func NewDragStateError(message string) *AppError {
	return newAppError(ErrorTypeDragState, message, http.StatusConflict)
}

// NewUnauthorizedError creates an authentication error.
func NewUnauthorizedError(message string) *AppError {
	return newAppError(ErrorTypeUnauthorized, message, http.StatusUnauthorized)
}

// NewForbiddenError creates an authorization error.
func NewForbiddenError(message string) *AppError {
	return newAppError(ErrorTypeForbidden, message, http.StatusForbidden)
}

// NewRateLimitError creates a rate limiting error.
func NewRateLimitError(message string) *AppError {
	return newAppError(ErrorTypeRateLimit, message, http.StatusTooManyRequests)
}

// NewInternalError creates an internal error wrapping its cause.
func NewInternalError(message string, cause error) *AppError {
	err := newAppError(ErrorTypeInternal, message, http.StatusInternalServerError)
	err.Cause = cause
	return err
}

// IsAppError reports whether err is (or wraps) an *AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts the *AppError from err, or wraps err as an
// internal error when it carries no application error.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("unexpected error", err)
}

// IsType reports whether err carries an *AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// IsNotFound reports whether err is a dangling-reference error.
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsRootViolation reports whether err is a root violation.
func IsRootViolation(err error) bool {
	return IsType(err, ErrorTypeRootViolation)
}

// IsCycleViolation reports whether err is a cycle violation.
func IsCycleViolation(err error) bool {
	return IsType(err, ErrorTypeCycleViolation)
}

// IsEmptyHistory reports whether err is an empty-history error.
func IsEmptyHistory(err error) bool {
	return IsType(err, ErrorTypeEmptyHistory)
}

// IsDragState reports whether err is a drag gesture state error.
func IsDragState(err error) bool {
	return IsType(err, ErrorTypeDragState)
}

// Wrap annotates err with a message, preserving an existing *AppError's
// type, code, and status.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Type:       appErr.Type,
			Message:    fmt.Sprintf("%s: %s", message, appErr.Message),
			Code:       appErr.Code,
			Details:    appErr.Details,
			Cause:      appErr,
			StackTrace: appErr.StackTrace,
			HTTPStatus: appErr.HTTPStatus,
		}
	}
	return NewInternalError(message, err)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return Wrap(err, fmt.Sprintf(format, args...))
}

func captureStackTrace() string {
	const depth = 16
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return sb.String()
}
