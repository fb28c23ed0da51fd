// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/taskly/internal/platform/apperr"
)

// MemoryAccountRepository is an in-process [AccountRepository].
//
// It enforces the same uniqueness rules as the PostgreSQL schema and is used by
// tests and local runs without a database.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	byID     map[string]*Account
	now      func() time.Time
	failWith error
}

// NewMemoryAccountRepository returns an empty in-memory repository.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		byID: make(map[string]*Account),
		now:  time.Now,
	}
}

// FailWith makes every subsequent call return err. Passing nil restores normal behavior.
func (repository *MemoryAccountRepository) FailWith(err error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.failWith = err
}

// ExistsByUsernameOrEmail implements [AccountRepository].
func (repository *MemoryAccountRepository) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	if repository.failWith != nil {
		return false, apperr.Internal(repository.failWith)
	}

	return repository.taken(username, email), nil
}

// FindByEmail implements [AccountRepository].
func (repository *MemoryAccountRepository) FindByEmail(_ context.Context, email string) (*Account, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	if repository.failWith != nil {
		return nil, apperr.Internal(repository.failWith)
	}

	for _, account := range repository.byID {
		if account.Email == email {
			clone := *account
			return &clone, nil
		}
	}

	return nil, apperr.NotFound("Account")
}

// FindByID implements [AccountRepository].
func (repository *MemoryAccountRepository) FindByID(_ context.Context, id string) (*Account, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	if repository.failWith != nil {
		return nil, apperr.Internal(repository.failWith)
	}

	account, found := repository.byID[id]
	if !found {
		return nil, apperr.NotFound("Account")
	}

	clone := *account
	return &clone, nil
}

// Create implements [AccountRepository].
func (repository *MemoryAccountRepository) Create(_ context.Context, account *Account) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.failWith != nil {
		return apperr.Internal(repository.failWith)
	}

	if _, found := repository.byID[account.ID]; found || repository.taken(account.Username, account.Email) {
		return apperr.Conflict(MsgIdentityTaken)
	}

	account.CreatedAt = repository.now().UTC()
	stored := *account
	repository.byID[account.ID] = &stored

	return nil
}

// Delete removes an account. Accounts are never deleted through the API; tests
// use it to simulate an account vanishing while its token is still valid.
func (repository *MemoryAccountRepository) Delete(id string) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	delete(repository.byID, id)
}

// taken must be called with the lock held.
func (repository *MemoryAccountRepository) taken(username, email string) bool {
	for _, existing := range repository.byID {
		if existing.Username == username || existing.Email == email {
			return true
		}
	}
	return false
}
