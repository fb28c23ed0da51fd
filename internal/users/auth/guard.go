// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/taskly/internal/platform/apperr"
	"github.com/taibuivan/taskly/internal/platform/ctxutil"
	"github.com/taibuivan/taskly/internal/platform/middleware"
	"github.com/taibuivan/taskly/internal/platform/sec"
)

// TokenVerifier checks a session token's signature, issuer and expiry.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// Guard resolves bearer tokens into verified accounts.
//
// It satisfies [middleware.PrincipalResolver]. The cache is optional; when
// present it is consulted before the repository and refilled after a miss.
type Guard struct {
	verifier TokenVerifier
	accounts AccountRepository
	cache    AccountCache
}

// NewGuard builds a guard. cache may be nil.
func NewGuard(verifier TokenVerifier, accounts AccountRepository, cache AccountCache) *Guard {
	return &Guard{verifier: verifier, accounts: accounts, cache: cache}
}

var _ middleware.PrincipalResolver = (*Guard)(nil)

/*
ResolvePrincipal verifies the token and loads the account it names.

Returns:
  - *sec.Principal: The verified account
  - error: apperr.Unauthenticated for any unusable token or vanished account,
    apperr.Internal when the account store fails
*/
func (guard *Guard) ResolvePrincipal(context context.Context, token string) (*sec.Principal, error) {
	claims, err := guard.verifier.VerifyToken(token)
	if err != nil {
		return nil, apperr.Unauthenticated(middleware.MsgUnauthenticated)
	}

	if principal := guard.cached(context, claims.AccountID); principal != nil {
		return principal, nil
	}

	account, err := guard.accounts.FindByID(context, claims.AccountID)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthenticated(middleware.MsgUnauthenticated)
		}
		return nil, fmt.Errorf("auth_guard_resolve_failed: %w", err)
	}

	principal := account.Principal()
	guard.remember(context, principal)

	return principal, nil
}

func (guard *Guard) cached(context context.Context, accountID string) *sec.Principal {
	if guard.cache == nil {
		return nil
	}

	principal, err := guard.cache.Get(context, accountID)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			ctxutil.GetLogger(context).WarnContext(context, "account_cache_unavailable", slog.Any("error", err))
		}
		return nil
	}

	return principal
}

func (guard *Guard) remember(context context.Context, principal *sec.Principal) {
	if guard.cache == nil {
		return
	}

	if err := guard.cache.Set(context, principal, AccountCacheTTL); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "account_cache_unavailable", slog.Any("error", err))
	}
}
