// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

/*
Package account implements profile self-service and administrative user management.

It builds on the identity entity owned by the auth package: the profile surface
(/users/me) lets an authenticated member read and edit their own record, while
the admin surface (/users) exposes full CRUD over every account.

# Architecture

  - Service: Enforces the role-freeze and superuser invariants on every write.
  - Repository: Postgres-backed account listing, mutation, and deletion.
  - Delivery: Two route groups with different authorization envelopes.
*/
package account

import (
	"context"

	"github.com/critika-app/critika/internal/users/auth"
	"github.com/critika-app/critika/pkg/pagination"
)

// # Data Access

// AccountRepository defines the data access contract for account management.
type AccountRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *auth.User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *auth.User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*auth.User, error)

	/*
		List returns a page of accounts, optionally filtered by a username
		substring, ordered by username.

		Parameters:
		  - context: context.Context
		  - search: string (Empty means no filter)
		  - params: pagination.Params

		Returns:
		  - []*auth.User: The page of accounts
		  - int64: Total matching rows
		  - error: Database retrieval failures
	*/
	List(context context.Context, search string, params pagination.Params) ([]*auth.User, int64, error)

	/*
		Create persists a brand-new account.

		Parameters:
		  - context: context.Context
		  - user: *auth.User

		Returns:
		  - error: Persistence failures (unique violations included)
	*/
	Create(context context.Context, user *auth.User) error

	/*
		Update persists changes to mutable account fields.

		Parameters:
		  - context: context.Context
		  - user: *auth.User

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		DeleteByUsername permanently removes the account.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - error: apperr.NotFound if no such account, or persistence failures
	*/
	DeleteByUsername(context context.Context, username string) error
}
