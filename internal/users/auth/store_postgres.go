// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/taskly/internal/platform/apperr"
	"github.com/taibuivan/taskly/internal/platform/database/schema"
	"github.com/taibuivan/taskly/internal/platform/dberr"
	"github.com/taibuivan/taskly/pkg/uuid"
)

var (
	existsAccountQuery = fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 OR %s = $2)`,
		schema.Account.Table, schema.Account.Username, schema.Account.Email)

	findAccountByEmailQuery = fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.Account.ColumnList(), schema.Account.Table, schema.Account.Email)

	findAccountByIDQuery = fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.Account.ColumnList(), schema.Account.Table, schema.Account.ID)

	insertAccountQuery = fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4) RETURNING %s`,
		schema.Account.Table,
		schema.Account.ID, schema.Account.Username, schema.Account.Email, schema.Account.PasswordHash,
		schema.Account.CreatedAt)
)

// # Account Repository

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
ExistsByUsernameOrEmail checks both unique identities with one query.

Parameters:
  - context: context.Context
  - username: string
  - email: string (already normalized)

Returns:
  - bool: Whether a matching account exists
  - error: Database failures
*/
func (repository *PostgresAccountRepository) ExistsByUsernameOrEmail(context context.Context, username, email string) (bool, error) {
	var exists bool
	if err := repository.pool.QueryRow(context, existsAccountQuery, username, email).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "Account", "postgres_account_repo_exists_failed", MsgIdentityTaken)
	}

	return exists, nil
}

/*
FindByEmail retrieves an account by its normalized email.

Returns:
  - *Account: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	account, err := scanAccount(repository.pool.QueryRow(context, findAccountByEmailQuery, email))
	if err != nil {
		return nil, dberr.Wrap(err, "Account", "postgres_account_repo_find_by_email_failed", MsgIdentityTaken)
	}

	return account, nil
}

// FindByID retrieves an account by its ID. A malformed ID is reported as not found.
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*Account, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Account")
	}

	account, err := scanAccount(repository.pool.QueryRow(context, findAccountByIDQuery, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Account", "postgres_account_repo_find_by_id_failed", MsgIdentityTaken)
	}

	return account, nil
}

/*
Create inserts a new account row. The database assigns created_at.

Parameters:
  - context: context.Context
  - account: *Account (ID, Username, Email, PasswordHash populated)

Returns:
  - error: apperr.Conflict when a concurrent registration won the race
*/
func (repository *PostgresAccountRepository) Create(context context.Context, account *Account) error {
	err := repository.pool.QueryRow(context, insertAccountQuery,
		account.ID,
		account.Username,
		account.Email,
		account.PasswordHash,
	).Scan(&account.CreatedAt)

	if err != nil {
		return dberr.Wrap(err, "Account", "postgres_account_repo_create_failed", MsgIdentityTaken)
	}

	return nil
}

func scanAccount(row pgx.Row) (*Account, error) {
	account := &Account{}
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}
