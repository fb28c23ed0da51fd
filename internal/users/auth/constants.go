// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// DefaultTokenTTL is the validity window of a session token when none is configured.
	DefaultTokenTTL = time.Hour

	// AccountCacheTTL bounds how long the guard trusts a cached account projection.
	// A cache hit skips the store, so this assumes accounts are never deleted or
	// disabled; adding either requires evicting the account's cache entry.
	AccountCacheTTL = 5 * time.Minute
)

// # Field Limits

const (
	UsernameMinLength = 3
	UsernameMaxLength = 30
	EmailMaxLength    = 254
	PasswordMinLength = 6

	// PasswordMaxBytes is the bcrypt input limit; longer passwords are rejected
	// rather than silently truncated.
	PasswordMaxBytes = 72
)

// # Client Messages

const (
	// MsgInvalidCredentials is shared by every login failure so that an unknown
	// email and a wrong password are indistinguishable.
	MsgInvalidCredentials = "Invalid email or password"

	// MsgIdentityTaken is returned when the username or the email already exists.
	MsgIdentityTaken = "Username or email is already in use"
)
