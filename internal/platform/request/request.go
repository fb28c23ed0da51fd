// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/taskly/internal/platform/apperr"
	"github.com/taibuivan/taskly/internal/platform/ctxutil"
	"github.com/taibuivan/taskly/internal/platform/sec"
	"github.com/taibuivan/taskly/internal/platform/validate"
)

const (
	// maxBodyBytes bounds every JSON request body.
	maxBodyBytes = 1 << 20

	unknownFieldPrefix = "json: unknown field "
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

The body must hold exactly one JSON value whose keys are all known to target.

Parameters:
  - writer: http.ResponseWriter (used to cap the body size)
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: VALIDATION_ERROR naming the unknown field, validate.ErrInvalidJSON
    for any other decoding failure, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	body := http.MaxBytesReader(writer, request.Body, maxBodyBytes)

	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		// encoding/json exposes unknown keys only through the message text.
		if field, found := strings.CutPrefix(err.Error(), unknownFieldPrefix); found {
			return validate.FieldError(strings.Trim(field, `"`), "Unknown field")
		}
		return validate.ErrInvalidJSON
	}

	// Trailing data after the first value.
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}

	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
RequiredPrincipal ensures the request passed the authentication guard and
returns the resolved account.

Returns:
  - *sec.Principal: The authenticated account
  - error: apperr.Unauthenticated if the guard did not run
*/
func RequiredPrincipal(request *http.Request) (*sec.Principal, error) {

	// Get the resolved account
	principal := ctxutil.GetPrincipal(request.Context())

	// If the guard did not attach an account, refuse the request
	if principal == nil {
		return nil, apperr.Unauthenticated("Authentication required")
	}

	return principal, nil
}

/*
RequiredAccountID returns the ID of the currently logged-in account.
*/
func RequiredAccountID(request *http.Request) (string, error) {
	principal, err := RequiredPrincipal(request)
	if err != nil {
		return "", err
	}
	return principal.AccountID, nil
}
