// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/critika-app/critika/internal/platform/apperr"
	"github.com/critika-app/critika/internal/platform/dberr"
	"github.com/critika-app/critika/internal/platform/sec"
	"github.com/critika-app/critika/internal/users/auth"
	"github.com/critika-app/critika/pkg/pagination"
	"github.com/critika-app/critika/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for profile and account management.
//
// It is the single place where the role-freeze rule (non-admins cannot change
// roles) and the superuser invariant (superuser implies admin) are applied.
type Service struct {
	accountRepository AccountRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepo AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateInput defines the mutable subset of account fields. Nil pointers
// mean "leave unchanged".
type UpdateInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

/*
UpdateProfile applies a partial set of changes to the acting user's own record.

Description: Fetches the existing state, overlays provided fields, and
persists. The role field is frozen for non-admin actors: a submitted role is
silently discarded, never an error, so clients can round-trip the profile
document unchanged.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateInput
  - actorIsAdmin: bool

Returns:
  - *auth.User: The updated profile
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateInput, actorIsAdmin bool) (*auth.User, error) {

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if err := service.applyUpdate(user, input, actorIsAdmin); err != nil {
		return nil, err
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

// applyUpdate overlays the delta onto the entity and re-applies the
// persistence invariants.
func (service *Service) applyUpdate(user *auth.User, input UpdateInput, actorIsAdmin bool) error {

	// Apply delta updates
	if input.Email != nil {
		user.Email = *input.Email
	}

	// Apply delta updates
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}

	// Apply delta updates
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	// Apply delta updates
	if input.Bio != nil {
		user.Bio = *input.Bio
	}

	// Role changes: admin-only, enumerated values only. For everyone else the
	// submitted value is silently preserved as-is.
	if input.Role != nil && actorIsAdmin {
		role := sec.UserRole(*input.Role)
		if !role.IsValid() {
			return apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   auth.FieldRole,
				Message: "Unknown role",
			})
		}
		user.Role = role
	}

	// Superuser implies admin, on every persist.
	user.NormalizeRole()
	return nil
}

// # Administrative Management

/*
ListUsers returns a page of accounts for the admin surface.

Parameters:
  - context: context.Context
  - search: string (Username substring, empty for all)
  - params: pagination.Params

Returns:
  - []*auth.User: The page
  - int64: Total matching rows
  - error: Retrieval failures
*/
func (service *Service) ListUsers(context context.Context, search string, params pagination.Params) ([]*auth.User, int64, error) {
	users, total, err := service.accountRepository.List(context, search, params)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

// CreateInput holds the data for an admin-created account.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string
}

/*
CreateUser persists an admin-provisioned account.

Description: Unlike self-registration, no confirmation code is dispatched;
the account holder completes the token flow through the normal signup
re-registration path.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *auth.User: Created entity
  - error: Conflict (identity taken), ValidationError, or storage failures
*/
func (service *Service) CreateUser(context context.Context, input CreateInput) (*auth.User, error) {

	if strings.EqualFold(input.Username, auth.ReservedUsername) {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   auth.FieldUsername,
			Message: "This username is reserved",
		})
	}

	role := sec.RoleUser
	if input.Role != "" {
		role = sec.UserRole(input.Role)
		if !role.IsValid() {
			return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   auth.FieldRole,
				Message: "Unknown role",
			})
		}
	}

	user := &auth.User{
		ID:        uuid.New(),
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      role,
	}
	user.NormalizeRole()

	if err := service.accountRepository.Create(context, user); err != nil {
		if dberr.IsUniqueViolation(err, "") {
			return nil, apperr.Conflict("Username or email is already taken")
		}
		return nil, fmt.Errorf("account_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_account_provisioned",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

/*
GetByUsername retrieves an account for the admin surface.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *auth.User: Hydrated entity
  - error: Not found or execution failures
*/
func (service *Service) GetByUsername(context context.Context, username string) (*auth.User, error) {
	return service.accountRepository.FindByUsername(context, username)
}

/*
UpdateByUsername applies a partial update to any account (admin surface).

Description: The acting identity is always an admin here (the router enforces
it), so role changes are allowed — still restricted to enumerated values.

Parameters:
  - context: context.Context
  - username: string
  - input: UpdateInput

Returns:
  - *auth.User: The updated entity
  - error: Not found, validation, or storage failures
*/
func (service *Service) UpdateByUsername(context context.Context, username string, input UpdateInput) (*auth.User, error) {

	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	if err := service.applyUpdate(user, input, true); err != nil {
		return nil, err
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_admin_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_account_updated",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

/*
DeleteByUsername permanently removes an account (admin surface).

Parameters:
  - context: context.Context
  - username: string

Returns:
  - error: Not found or deletion failures
*/
func (service *Service) DeleteByUsername(context context.Context, username string) error {
	if err := service.accountRepository.DeleteByUsername(context, username); err != nil {
		return err
	}

	service.logger.WarnContext(context, "user_account_deleted", slog.String("username", username))

	return nil
}
