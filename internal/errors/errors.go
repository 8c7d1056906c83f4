// Package errors provides the error taxonomy used across the backend and
// the mapping from errors to HTTP responses.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrScriptTimeout      = errors.New("script timeout")
)

// ValidationError reports bad client input. Fields lists the offending
// fields when the failure is a missing-field check.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
	}
	return e.Message
}

// NewValidationError creates a ValidationError with a free-form message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// MissingFields creates a ValidationError naming the absent required fields.
func MissingFields(fields []string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// ConfigurationError reports missing required credentials or environment.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// ConnectionError reports an unreachable external resource. The resource
// name is safe to surface; the wrapped error may carry connection strings
// and is only exposed outside production.
type ConnectionError struct {
	Resource string
	Err      error
}

func (e *ConnectionError) Error() string {
	return e.Resource + " connection failed"
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// RenderError reports document generation failure after the fallback
// rendering path was exhausted.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return "order sheet generation failed"
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Classify maps an error onto an HTTP status code and a stable error
// string for the response envelope.
func Classify(err error) (int, string) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, "Validation error"
	}

	var configErr *ConfigurationError
	if errors.As(err, &configErr) {
		return http.StatusServiceUnavailable, "Configuration error"
	}

	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return http.StatusServiceUnavailable, capitalize(connErr.Error())
	}

	var renderErr *RenderError
	if errors.As(err, &renderErr) {
		return http.StatusInternalServerError, "Order sheet generation failed"
	}

	return http.StatusInternalServerError, "Internal server error"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
