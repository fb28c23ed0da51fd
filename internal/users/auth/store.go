// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/taibuivan/taskly/internal/platform/sec"
)

// # Account Data Access

// AccountRepository defines the data access contract for accounts.
//
// Lookups return an apperr NOT_FOUND error when no row matches. Any other
// failure is an apperr INTERNAL_ERROR.
type AccountRepository interface {

	/*
		ExistsByUsernameOrEmail reports whether any account holds the username
		or the (normalized) email, in a single lookup.

		Parameters:
		  - context: context.Context
		  - username: string
		  - email: string

		Returns:
		  - bool: true when either identity is taken
		  - error: Database retrieval failures
	*/
	ExistsByUsernameOrEmail(context context.Context, username, email string) (bool, error)

	/*
		FindByEmail returns the account with the given normalized email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByEmail(context context.Context, email string) (*Account, error)

	// FindByID returns the account with the given ID.
	FindByID(context context.Context, id string) (*Account, error)

	/*
		Create persists a brand-new account.

		Parameters:
		  - context: context.Context
		  - account: *Account

		Returns:
		  - error: apperr.Conflict on a unique violation, or persistence failures
	*/
	Create(context context.Context, account *Account) error
}

// # Account Cache

// ErrCacheMiss is returned by [AccountCache.Get] when no entry exists.
var ErrCacheMiss = errors.New("auth: account cache miss")

// AccountCache stores the guard's account projections for a short time.
//
// Implementations may fail freely; the guard treats every error as a miss.
type AccountCache interface {
	Get(context context.Context, accountID string) (*sec.Principal, error)
	Set(context context.Context, principal *sec.Principal, ttl time.Duration) error
}
