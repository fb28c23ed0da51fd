// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/taskly/internal/platform/apperr"
	"github.com/taibuivan/taskly/internal/platform/constants"
	"github.com/taibuivan/taskly/internal/platform/ctxutil"
	"github.com/taibuivan/taskly/internal/platform/respond"
	"github.com/taibuivan/taskly/internal/platform/sec"
)

// MsgUnauthenticated is the single message returned for every token failure,
// so a client cannot tell an absent token from a forged or expired one.
const MsgUnauthenticated = "Authentication required"

// PrincipalResolver turns a raw bearer token into a verified account.
//
// # Why an interface?
//
// Defining PrincipalResolver here decouples the middleware from the `auth`
// package, which itself depends on platform packages.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, token string) (*sec.Principal, error)
}

// RequireAuth is the hard gate in front of every task route.
//
// # Flow
//  1. Extract the token from 'Authorization: Bearer <token>'.
//  2. Absent or malformed header: abort with 401 UNAUTHENTICATED.
//  3. Resolve the token via [PrincipalResolver]; its error is written as-is
//     (401 for unusable tokens, 500 for storage failures).
//  4. Inject [*sec.Principal] into the request context for downstream use.
func RequireAuth(resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Format validation
			token, ok := BearerToken(request)
			if !ok {
				respond.Error(writer, request, apperr.Unauthenticated(MsgUnauthenticated))
				return
			}

			// 2. Verification and account resolution
			principal, err := resolver.ResolvePrincipal(request.Context(), token)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// 3. Context injection
			if slot, found := request.Context().Value(accountSlotKey{}).(*accountSlot); found {
				slot.id = principal.AccountID
			}

			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// BearerToken extracts a non-empty token from the Authorization header.
// The scheme is matched case-insensitively.
func BearerToken(request *http.Request) (string, bool) {
	header := request.Header.Get(constants.HeaderAuthorization)

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	return token, true
}
