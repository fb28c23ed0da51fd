// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for Taskly.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct carrying a closed [Code] and a client-safe message.
  - Mapping: Each [Code] maps to exactly one HTTP status code.
  - Matching: Callers branch on [Code] via [Is], never on message text.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the closed set of error kinds the API can report.
type Code string

const (
	// CodeValidation reports malformed input.
	CodeValidation Code = "VALIDATION_ERROR"

	// CodeConflict reports a duplicate username or email.
	CodeConflict Code = "CONFLICT"

	// CodeAuthentication reports rejected login credentials.
	CodeAuthentication Code = "AUTHENTICATION_FAILED"

	// CodeUnauthenticated reports a missing, invalid or expired session token.
	CodeUnauthenticated Code = "UNAUTHENTICATED"

	// CodeNotFound reports a resource that is absent or not owned by the caller.
	CodeNotFound Code = "NOT_FOUND"

	// CodeRateLimited reports a client exceeding its request budget.
	CodeRateLimited Code = "RATE_LIMITED"

	// CodeInternal reports an unexpected server-side failure.
	CodeInternal Code = "INTERNAL_ERROR"

	// CodeUnavailable reports that a required dependency is unreachable.
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
)

// HTTPStatus returns the response status code for c.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation, CodeConflict:
		return http.StatusBadRequest
	case CodeAuthentication, CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AppError is the canonical error type for the Taskly API.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is the machine-readable error kind.
	Code Code `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// HTTPStatus returns the HTTP response status code for this error.
func (e *AppError) HTTPStatus() int { return e.Code.HTTPStatus() }

// # Client Errors (4xx)

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: msg,
		Details: details,
	}
}

// Conflict creates an [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: msg,
	}
}

// Authentication creates a 401 [AppError] for rejected credentials.
func Authentication(msg string) *AppError {
	return &AppError{
		Code:    CodeAuthentication,
		Message: msg,
	}
}

// Unauthenticated creates a 401 [AppError] for a missing or unusable session token.
func Unauthenticated(msg string) *AppError {
	return &AppError{
		Code:    CodeUnauthenticated,
		Message: msg,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Task") // Returns "Task not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: resource + " not found",
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:    CodeRateLimited,
		Message: fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "An unexpected error occurred",
		Cause:   cause,
	}
}

// Unavailable creates a 503 [AppError]. Details name the failing dependencies;
// the cause is logged and never sent to the client.
func Unavailable(cause error, details ...FieldError) *AppError {
	return &AppError{
		Code:    CodeUnavailable,
		Message: "Service unavailable",
		Cause:   cause,
		Details: details,
	}
}

// # Helpers

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// Is reports whether err carries an [*AppError] of the given code.
func Is(err error, code Code) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
