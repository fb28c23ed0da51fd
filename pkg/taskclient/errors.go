// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taskclient

import (
	"errors"
	"fmt"
)

// Error codes returned by the API.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeConflict        = "CONFLICT"
	CodeAuthentication  = "AUTHENTICATION_FAILED"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeNotFound        = "NOT_FOUND"
	CodeRateLimited     = "RATE_LIMITED"
	CodeInternal        = "INTERNAL_ERROR"
	CodeUnavailable     = "SERVICE_UNAVAILABLE"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a failed response decoded from the error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details []FieldError
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s (%d): %s: %s %s", e.Code, e.Status, e.Message, e.Details[0].Field, e.Details[0].Message)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

func hasCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// IsUnauthenticated reports whether the session token was rejected.
// Callers should log in again.
func IsUnauthenticated(err error) bool { return hasCode(err, CodeUnauthenticated) }

// IsNotFound reports whether the task does not exist for this account.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsConflict reports whether registration hit a taken username or email.
func IsConflict(err error) bool { return hasCode(err, CodeConflict) }
