// Package platformerrors defines the shared error taxonomy for the
// messaging core. Every error that crosses a package boundary is a
// *PlatformError so callers can branch on the category without string
// matching.
package platformerrors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypePermission ErrorType = "PERMISSION"
	ErrorTypeConflict   ErrorType = "CONFLICT"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeTransport  ErrorType = "TRANSPORT"
	ErrorTypeInternal   ErrorType = "INTERNAL"
)

// Layer represents the application layer where the error occurred.
type Layer string

const (
	LayerDomain         Layer = "domain"
	LayerInfrastructure Layer = "infrastructure"
	LayerSyncer         Layer = "syncer"
)

// PlatformError carries the category, origin layer and optional context of
// a failure.
type PlatformError struct {
	Type      ErrorType
	Layer     Layer
	Message   string
	Err       error
	Context   map[string]any
	Timestamp time.Time
}

// Error implements the error interface.
func (e *PlatformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s][%s] %s: %v", e.Layer, e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s][%s] %s", e.Layer, e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *PlatformError) Unwrap() error {
	return e.Err
}

// WithContext attaches a context field and returns the error for chaining.
func (e *PlatformError) WithContext(key string, value any) *PlatformError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// New creates a PlatformError with the given category.
func New(layer Layer, errorType ErrorType, message string, err error) *PlatformError {
	return &PlatformError{
		Type:      errorType,
		Layer:     layer,
		Message:   message,
		Err:       err,
		Timestamp: time.Now().UTC(),
	}
}

// Validation builds a domain-layer VALIDATION error.
func Validation(message string) *PlatformError {
	return New(LayerDomain, ErrorTypeValidation, message, nil)
}

// Permission builds a domain-layer PERMISSION error.
func Permission(message string) *PlatformError {
	return New(LayerDomain, ErrorTypePermission, message, nil)
}

// Conflict builds a domain-layer CONFLICT error.
func Conflict(message string) *PlatformError {
	return New(LayerDomain, ErrorTypeConflict, message, nil)
}

// NotFound builds a domain-layer NOT_FOUND error.
func NotFound(message string) *PlatformError {
	return New(LayerDomain, ErrorTypeNotFound, message, nil)
}

// Transport builds an infrastructure-layer TRANSPORT error wrapping err.
func Transport(message string, err error) *PlatformError {
	return New(LayerInfrastructure, ErrorTypeTransport, message, err)
}

// TypeOf returns the category of err, or ErrorTypeInternal when err is not
// a PlatformError.
func TypeOf(err error) ErrorType {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe.Type
	}
	return ErrorTypeInternal
}

// IsType reports whether err carries the given category.
func IsType(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}

// IsRetryable reports whether the failure is transient. Only transport
// failures are retried; the polling loops treat them as non-fatal.
func IsRetryable(err error) bool {
	return IsType(err, ErrorTypeTransport)
}
