// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account identity for Taskly.

It owns registration, login, session token minting and the guard that turns a
bearer token back into a verified account on every protected request.

# Architecture

  - Service: Register, Login and Me use cases.
  - Guard: token verification plus account resolution, optionally cached.
  - Repository: PostgreSQL and in-memory implementations of [AccountRepository].
  - Cache: Redis implementation of [AccountCache].
*/
package auth

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/taibuivan/taskly/internal/platform/sec"
)

// # Domain Entities

// Account represents a registered Taskly user.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialized.
	CreatedAt    time.Time `json:"createdAt"`
}

// Principal projects the account onto the identity carried through a request.
func (account *Account) Principal() *sec.Principal {
	return &sec.Principal{
		AccountID: account.ID,
		Username:  account.Username,
		Email:     account.Email,
	}
}

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	Account *Account `json:"account"`
	Token   string   `json:"token"`
}

// # Inputs

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// # Normalization

// NormalizeEmail trims and case-folds an email address so that lookups and the
// uniqueness constraint are case-insensitive.
func NormalizeEmail(email string) string {
	// A Caser keeps internal state; one per call.
	return cases.Fold().String(strings.TrimSpace(email))
}

// # Field Identifiers

const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
)
