// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

/*
Package auth implements the user identity and access management layer.

It handles the email-less registration flow: an account is created from a
(username, email) pair, a one-time confirmation code is dispatched out of band,
and the code is later exchanged for a signed JWT access token.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity:

  - Service: Orchestrates business logic (Signup, Exchange).
  - Repository: Abstracted interfaces for Postgres (Users) and Redis (Codes).
  - Security: RSA-signed JWTs minted via the injected TokenProvider.
*/
package auth

import (
	"time"

	"github.com/critika-app/critika/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Critika platform.
type User struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	FirstName   string       `json:"first_name,omitempty"`
	LastName    string       `json:"last_name,omitempty"`
	Bio         string       `json:"bio,omitempty"`
	Role        sec.UserRole `json:"role"`
	IsSuperuser bool         `json:"-"` // Operational flag, never exposed through the API.
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NormalizeRole applies the superuser invariant: an account flagged as
// superuser always carries the admin role, regardless of what the row or the
// request says. Idempotent; must run before every persist.
func (user *User) NormalizeRole() {
	if user.IsSuperuser {
		user.Role = sec.RoleAdmin
	}
	if !user.Role.IsValid() {
		user.Role = sec.RoleUser
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the auth domain.
const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldBio              = "bio"
	FieldRole             = "role"
	FieldConfirmationCode = "confirmation_code"
	FieldToken            = "token"
	FieldMessage          = "message"
)
