// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Uniqueness of username and email is enforced by the store itself;
		a racing duplicate surfaces as a unique-constraint error, never as
		a second row.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error
}

// # Volatile Data Access

// ConfirmationCodeRepository defines the contract for storing volatile
// one-time confirmation codes, keyed by user ID.
type ConfirmationCodeRepository interface {

	/*
		FetchOrStore atomically stores the candidate code unless one already
		exists, then returns whichever code is live.

		Concurrent issuance converges: all callers observe the same single
		outstanding code, and an existing code is never silently rotated.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - candidate: string (Freshly generated code)
		  - ttl: time.Duration

		Returns:
		  - string: The live code (candidate or pre-existing)
		  - error: Storage failures
	*/
	FetchOrStore(context context.Context, userID, candidate string, ttl time.Duration) (string, error)

	/*
		Get retrieves the outstanding code for a user.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - string: The live code
		  - error: apperr.NotFound if absent or expired
	*/
	Get(context context.Context, userID string) (string, error)

	/*
		Delete removes the code after a successful exchange.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Deletion failures
	*/
	Delete(context context.Context, userID string) error
}
