// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/critika-app/critika/internal/platform/apperr"
	"github.com/critika-app/critika/internal/platform/dberr"
	"github.com/critika-app/critika/internal/platform/notify"
	"github.com/critika-app/critika/internal/platform/sec"
	"github.com/critika-app/critika/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - role: The role of the account.
	//   - superuser: The operational superuser flag.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, username, role string, superuser bool, timeToLive time.Duration) (string, error)
}

// Service implements the registration and token-exchange use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to the registration
// uniqueness rules or the exchange flow must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	codeRepository ConfirmationCodeRepository
	tokenProvider  TokenProvider
	notifier       notify.Notifier
	logger         *slog.Logger
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	codeRepo ConfirmationCodeRepository,
	tokenProv TokenProvider,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		codeRepository: codeRepo,
		tokenProvider:  tokenProv,
		notifier:       notifier,
		logger:         logger,
	}
}

// # Registration Flow

// SignupInput holds the data required to enroll a new member.
type SignupInput struct {
	Username string
	Email    string
}

/*
Signup registers a new identity and dispatches its confirmation code.

Description: Applies the three-way uniqueness rule over (username, email):
an exact pair match is treated as idempotent re-registration (the outstanding
code is re-issued and re-dispatched, then a Conflict is returned so the client
knows the account pre-exists); a partial match is a validation failure.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *User: Created entity (nil on re-registration)
  - error: Conflict, ValidationError, or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*User, error) {

	// The self-profile route owns this path segment.
	if strings.EqualFold(input.Username, ReservedUsername) {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldUsername,
			Message: "This username is reserved",
		})
	}

	// Classify against existing rows before attempting the insert.
	if handled, err := service.classifyExisting(context, input); handled {
		return nil, err
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:       uuid.New(),
		Username: input.Username,
		Email:    input.Email,
		Role:     sec.RoleUser,
	}
	user.NormalizeRole()

	// Persist the user to the database.
	if err := service.userRepository.Create(context, user); err != nil {

		// A racing duplicate insert lands here: the unique index is the
		// authoritative signal, so re-run the same three-way classification
		// against the row that won.
		if dberr.IsUniqueViolation(err, "") {
			if handled, classified := service.classifyExisting(context, input); handled {
				return nil, classified
			}
		}
		return nil, fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	// Issue and dispatch the confirmation code as a fire-and-forget side effect.
	service.issueAndDispatch(context, user)

	return user, nil
}

// classifyExisting resolves a (username, email) pair against existing rows.
//
// Returns handled=false when no row collides and the insert may proceed.
// When handled=true the accompanying error is the client-facing outcome:
// Conflict for the idempotent re-registration case (after re-dispatching the
// code), ValidationError for partial matches.
func (service *Service) classifyExisting(context context.Context, input SignupInput) (bool, error) {

	// 1. Username collision
	existing, err := service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		if existing.Email == input.Email {
			// Idempotent re-registration: same pair, re-issue the code.
			service.issueAndDispatch(context, existing)
			return true, apperr.Conflict("User is already registered, check your email for the confirmation code")
		}
		return true, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldUsername,
			Message: "Username is already taken",
		})
	}

	// 2. Email collision (necessarily a different username at this point)
	if _, err := service.userRepository.FindByEmail(context, input.Email); err == nil {
		return true, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldEmail,
			Message: "Email is already registered",
		})
	}

	return false, nil
}

// issueAndDispatch generates (or re-reads) the user's confirmation code and
// hands it to the notifier. Delivery failures are logged, never propagated:
// a broken relay must not block registration.
func (service *Service) issueAndDispatch(context context.Context, user *User) {

	candidate, err := sec.GenerateSecureToken(ConfirmationCodeLength)
	if err != nil {
		service.logger.ErrorContext(context, "confirmation_code_generation_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	// Fetch-or-create: concurrent signups converge on one outstanding code.
	code, err := service.codeRepository.FetchOrStore(context, user.ID, candidate, ConfirmationCodeTTL)
	if err != nil {
		service.logger.ErrorContext(context, "confirmation_code_store_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := service.notifier.SendConfirmationCode(context, user.Email, code); err != nil {
		service.logger.ErrorContext(context, "confirmation_code_dispatch_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}
}

// # Token Exchange Flow

// ExchangeResult is the typed outcome of a confirmation-code exchange.
//
// A code mismatch is a reported failure the handler branches on, not an
// error: Matched is false and AccessToken is empty.
type ExchangeResult struct {
	Matched     bool
	AccessToken string
}

/*
Exchange trades a valid confirmation code for a signed access token.

Description: Resolves the username, compares the submitted code against the
outstanding one, and mints a stateless RS256 JWT on match. The code is
consumed on success.

Parameters:
  - context: context.Context
  - username: string
  - code: string

Returns:
  - ExchangeResult: Matched flag plus the minted token
  - error: NotFound (unknown username or no outstanding code) or internal failures
*/
func (service *Service) Exchange(context context.Context, username, code string) (ExchangeResult, error) {

	// Unknown usernames are a 404, per the registration-first contract.
	user, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		return ExchangeResult{}, apperr.NotFound("User")
	}

	// No outstanding code is also a 404: nothing exists to compare against.
	stored, err := service.codeRepository.Get(context, user.ID)
	if err != nil {
		return ExchangeResult{}, err
	}

	// Exact match only. A mismatch is reported, not thrown.
	if stored != code {
		return ExchangeResult{Matched: false}, nil
	}

	user.NormalizeRole()
	accessToken, err := service.tokenProvider.GenerateAccessToken(
		user.ID, user.Username, string(user.Role), user.IsSuperuser, AccessTokenTTL,
	)
	if err != nil {
		return ExchangeResult{}, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// One-time semantics: consume the code. Best effort, a leftover code
	// simply expires on its own TTL.
	_ = service.codeRepository.Delete(context, user.ID)

	return ExchangeResult{Matched: true, AccessToken: accessToken}, nil
}
