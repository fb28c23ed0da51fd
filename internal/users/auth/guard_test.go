// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taskly/internal/platform/apperr"
	"github.com/taibuivan/taskly/internal/platform/sec"
	"github.com/taibuivan/taskly/internal/users/auth"
)

type stubCache struct {
	entries map[string]*sec.Principal
	getErr  error
	setErr  error
	sets    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]*sec.Principal)}
}

func (cache *stubCache) Get(_ context.Context, accountID string) (*sec.Principal, error) {
	if cache.getErr != nil {
		return nil, cache.getErr
	}
	principal, found := cache.entries[accountID]
	if !found {
		return nil, auth.ErrCacheMiss
	}
	return principal, nil
}

func (cache *stubCache) Set(_ context.Context, principal *sec.Principal, _ time.Duration) error {
	cache.sets++
	if cache.setErr != nil {
		return cache.setErr
	}
	cache.entries[principal.AccountID] = principal
	return nil
}

/*
TestGuard_Resolve verifies a valid token resolves to the stored account.
*/
func TestGuard_Resolve(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t, "alice", "alice@example.com")

	principal, err := f.guard.ResolvePrincipal(context.Background(), registered.Token)
	require.NoError(t, err)

	assert.Equal(t, registered.Account.ID, principal.AccountID)
	assert.Equal(t, "alice", principal.Username)
	assert.Equal(t, "alice@example.com", principal.Email)
}

/*
TestGuard_RejectsUnusableTokens verifies every token failure is UNAUTHENTICATED with one message.
*/
func TestGuard_RejectsUnusableTokens(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t, "alice", "alice@example.com")

	expired, err := f.tokens.GenerateAccessToken(registered.Account.ID, -time.Second)
	require.NoError(t, err)

	other, err := sec.NewTokenService("other-secret", "taskly.test")
	require.NoError(t, err)
	forged, err := other.GenerateAccessToken(registered.Account.ID, time.Hour)
	require.NoError(t, err)

	ghost, err := f.tokens.GenerateAccessToken("0190b3a4-7c1e-7d2a-9f00-1234567890ab", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"forged", forged},
		{"garbage", "abc.def.ghi"},
		{"unknown_account", ghost},
	}

	var messages []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal, err := f.guard.ResolvePrincipal(context.Background(), tt.token)
			assert.Nil(t, principal)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeUnauthenticated, ae.Code)
			messages = append(messages, ae.Message)
		})
	}

	for _, message := range messages {
		assert.Equal(t, messages[0], message)
	}
}

/*
TestGuard_VanishedAccount verifies a valid token for a deleted account is rejected.
*/
func TestGuard_VanishedAccount(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t, "alice", "alice@example.com")
	f.repository.Delete(registered.Account.ID)

	_, err := f.guard.ResolvePrincipal(context.Background(), registered.Token)
	assert.True(t, apperr.Is(err, apperr.CodeUnauthenticated))
}

/*
TestGuard_StorageFailure verifies a failing store is an internal error, not a 401.
*/
func TestGuard_StorageFailure(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t, "alice", "alice@example.com")
	f.repository.FailWith(errors.New("connection refused"))

	_, err := f.guard.ResolvePrincipal(context.Background(), registered.Token)
	assert.True(t, apperr.Is(err, apperr.CodeInternal))
}

/*
TestGuard_Cache verifies read-through behavior and degradation on cache errors.
*/
func TestGuard_Cache(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t, "alice", "alice@example.com")

	t.Run("miss_then_hit", func(t *testing.T) {
		cache := newStubCache()
		guard := auth.NewGuard(f.tokens, f.repository, cache)

		_, err := guard.ResolvePrincipal(context.Background(), registered.Token)
		require.NoError(t, err)
		assert.Equal(t, 1, cache.sets)

		// The store is down, but the cached entry still serves the request.
		f.repository.FailWith(errors.New("down"))
		defer f.repository.FailWith(nil)

		principal, err := guard.ResolvePrincipal(context.Background(), registered.Token)
		require.NoError(t, err)
		assert.Equal(t, registered.Account.ID, principal.AccountID)
	})

	t.Run("cache_errors_degrade", func(t *testing.T) {
		cache := newStubCache()
		cache.getErr = errors.New("redis timeout")
		cache.setErr = errors.New("redis timeout")
		guard := auth.NewGuard(f.tokens, f.repository, cache)

		principal, err := guard.ResolvePrincipal(context.Background(), registered.Token)
		require.NoError(t, err)
		assert.Equal(t, registered.Account.ID, principal.AccountID)
	})
}
