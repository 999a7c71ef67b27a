// Package flowerrors provides structured error handling for flowext with
// error categorization and contextual details. It extends Go's standard
// error handling with:
//   - Error categorization through ErrorType
//   - Structured context with key-value details
//   - Error wrapping with cause preservation
//   - Retryability detection
//
// Basic usage:
//
//	// Create a new error
//	err := flowerrors.New(flowerrors.ErrorTypeValidation, "duplicate column name")
//
//	// Add context
//	err = err.WithField("tables[0].features[1].name").
//	         WithDetail("value", "id")
//
//	// Wrap existing errors
//	if err := pool.Ping(ctx); err != nil {
//	    return flowerrors.Wrap(err, flowerrors.ErrorTypeConnection, "ping failed").
//	        WithDetail("dialect", "postgres")
//	}
//
// Validation and configuration errors always carry a field path under the
// "field" detail key so callers can diagnose malformed input without
// inspecting internals.
package flowerrors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error, used for error handling
// strategies by the external workflow engine.
type ErrorType string

const (
	// ErrorTypeValidation represents structurally inconsistent model input.
	// Always caller-recoverable and surfaced with a field path.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfig represents an unrecognized type tag or grammar
	// violation during configuration loading. Load aborts immediately.
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeConnection represents an unreachable endpoint or invalid
	// credentials. Surfaced, never retried within this layer.
	ErrorTypeConnection ErrorType = "connection"
	// ErrorTypeNotFound represents a missing resource (table, object, task).
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeFile represents file operation errors.
	ErrorTypeFile ErrorType = "file"
	// ErrorTypeQuery represents query execution errors.
	ErrorTypeQuery ErrorType = "query"
	// ErrorTypeData represents data processing errors.
	ErrorTypeData ErrorType = "data"
	// ErrorTypeInternal represents internal errors.
	ErrorTypeInternal ErrorType = "internal"
)

// FieldKey is the detail key that carries the failing field path on
// validation and configuration errors.
const FieldKey = "field"

// Error is a structured error with a category, a human-readable message,
// an optional cause, and key-value details.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// over the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error. Chainable.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithField records the field path of the offending configuration or model
// input, e.g. "tables[0].features[1].dtype".
func (e *Error) WithField(path string) *Error {
	return e.WithDetail(FieldKey, path)
}

// Field returns the field path recorded on the error, or "" if none.
func (e *Error) Field() string {
	if path, ok := e.Details[FieldKey].(string); ok {
		return path
	}
	return ""
}

// New creates a new error with the given type and message.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new error with a formatted message.
func Newf(errType ErrorType, format string, args ...any) *Error {
	return New(errType, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with additional context, preserving the
// original error as the cause. Returns nil if err is nil.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
	}
}

// IsType reports whether err (or any error in its chain) is a structured
// error of the given type.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// IsRetryable reports whether the error is worth retrying by the external
// workflow engine. Only connection errors qualify; validation, config, and
// data errors are deterministic.
func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == ErrorTypeConnection
}

// FieldPath returns the field path carried by a structured error in the
// chain, or "" when the error carries none.
func FieldPath(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Field()
}
