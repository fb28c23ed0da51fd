// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/taskly/internal/platform/apperr"
	"github.com/taibuivan/taskly/internal/platform/sec"
	"github.com/taibuivan/taskly/internal/platform/validate"
	"github.com/taibuivan/taskly/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer defines the contract for minting session tokens.
type TokenIssuer interface {
	// GenerateAccessToken creates a signed token bound to accountID.
	GenerateAccessToken(accountID string, timeToLive time.Duration) (string, error)
}

// Service implements account authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	accountRepository AccountRepository
	tokenIssuer       TokenIssuer
	tokenTTL          time.Duration
	logger            *slog.Logger
}

// NewService constructs a new [Service]. A non-positive tokenTTL falls back to [DefaultTokenTTL].
func NewService(accountRepo AccountRepository, tokenIssuer TokenIssuer, tokenTTL time.Duration, logger *slog.Logger) *Service {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Service{
		accountRepository: accountRepo,
		tokenIssuer:       tokenIssuer,
		tokenTTL:          tokenTTL,
		logger:            logger,
	}
}

// # Registration Flow

/*
Register validates, hashes, and persists a brand new account, then mints its
first session token.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *AuthResult: Created account and its token
  - err: Validation, Conflict (if either identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*AuthResult, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = NormalizeEmail(input.Email)

	if err := validateRegistration(input); err != nil {
		return nil, err
	}

	// One combined lookup on either identity.
	taken, err := service.accountRepository.ExistsByUsernameOrEmail(context, input.Username, input.Email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_exists_failed: %w", err)
	}
	if taken {
		return nil, apperr.Conflict(MsgIdentityTaken)
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	account := &Account{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	// A concurrent registration can still win between the check and the insert;
	// the repository reports that race as a Conflict too.
	if err := service.accountRepository.Create(context, account); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	token, err := service.issue(account)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "account_registered",
		slog.String("account_id", account.ID),
		slog.String("username", account.Username),
	)

	return &AuthResult{Account: account, Token: token}, nil
}

// # Authentication Flow

/*
Login verifies credentials and mints a new session token.

Description: Unknown email and wrong password return the same error, and an
unknown email still pays for one bcrypt comparison so response time does not
reveal whether the account exists.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *AuthResult: Account and token
  - err: Authentication, Validation or storage failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*AuthResult, error) {
	input.Email = NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	account, err := service.accountRepository.FindByEmail(context, input.Email)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			sec.BurnPasswordCheck(input.Password)
			return nil, apperr.Authentication(MsgInvalidCredentials)
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(input.Password, account.PasswordHash) {
		service.logger.WarnContext(context, "login_rejected", slog.String("account_id", account.ID))
		return nil, apperr.Authentication(MsgInvalidCredentials)
	}

	token, err := service.issue(account)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Account: account, Token: token}, nil
}

// # Profile

// Me returns the full account behind a guard-resolved principal.
func (service *Service) Me(context context.Context, accountID string) (*Account, error) {
	account, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_me_failed: %w", err)
	}
	return account, nil
}

// # Helpers

func (service *Service) issue(account *Account) (string, error) {
	token, err := service.tokenIssuer.GenerateAccessToken(account.ID, service.tokenTTL)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("auth_service_token_generation_failed: %w", err))
	}
	return token, nil
}

func validateRegistration(input RegisterInput) error {
	validator := &validate.Validator{}

	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, UsernameMinLength).
		MaxLen(FieldUsername, input.Username, UsernameMaxLength).
		Username(FieldUsername, input.Username).
		Required(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, EmailMaxLength).
		Email(FieldEmail, input.Email).
		MinLen(FieldPassword, input.Password, PasswordMinLength).
		Custom(FieldPassword, len(input.Password) > PasswordMaxBytes,
			fmt.Sprintf("Maximum %d bytes", PasswordMaxBytes))

	return validator.Err()
}
