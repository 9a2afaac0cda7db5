// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

/*
Package authz implements the request authorization policies of the Critika API.

Each policy is a pure function of (actor, verb class, optional target owner):
no I/O, no panics, no hidden framework coercion. A nil actor means the request
is anonymous. The functions return nil when the action is allowed, or a ready
[apperr.AppError] (401 for missing authentication, 403 for insufficient role
or ownership) that the transport layer renders directly.

# Policy selection

Policies are bound to resources at route-registration time:

  - ReadOnlyElseAdmin          → genres, categories, titles
  - AuthorOrModeratorElseReadOnly → reviews, comments
  - AdminOnly                  → user management

Denial is always explicit. There is no falsy default: every code path ends in
either nil or a concrete denial error.
*/
package authz

import (
	"net/http"

	"github.com/critika-app/critika/internal/platform/apperr"
	"github.com/critika-app/critika/internal/platform/sec"
)

// # Verb Classification

// IsSafeMethod reports whether the HTTP method is read-only
// (exempt from ownership and role checks).
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

// # Actor Predicates

// IsAdminActor reports whether the claims carry administrative privilege,
// either through the admin role or the superuser flag.
func IsAdminActor(actor *sec.AuthClaims) bool {
	if actor == nil {
		return false
	}
	return sec.UserRole(actor.Role).IsAdmin() || actor.Superuser
}

// IsModeratorActor reports whether the claims carry the moderator role.
func IsModeratorActor(actor *sec.AuthClaims) bool {
	if actor == nil {
		return false
	}
	return sec.UserRole(actor.Role).IsModerator()
}

// # Policies

// ReadOnlyElseAdmin governs catalog metadata (genres, categories, titles).
//
// Safe verbs are always allowed, including for anonymous actors. Every other
// verb requires an authenticated admin or superuser.
func ReadOnlyElseAdmin(actor *sec.AuthClaims, method string) error {
	if IsSafeMethod(method) {
		return nil
	}
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !IsAdminActor(actor) {
		return apperr.Forbidden("Administrator privileges required")
	}
	return nil
}

// AuthorOrModeratorElseReadOnly governs reviews and comments.
//
// Safe verbs are always allowed. Mutating verbs require authentication, and
// the acting identity must be the object's author OR hold the moderator or
// admin role. The anonymous case is rejected with 401 before the ownership
// check ever runs.
//
// ownerID is the author of the target object; pass the empty string for
// collection-level operations (create), where only authentication matters.
func AuthorOrModeratorElseReadOnly(actor *sec.AuthClaims, method string, ownerID string) error {
	if IsSafeMethod(method) {
		return nil
	}
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if ownerID == "" {
		return nil
	}
	if actor.UserID == ownerID || IsAdminActor(actor) || IsModeratorActor(actor) {
		return nil
	}
	return apperr.Forbidden("You can only modify your own content")
}

// AdminOnly governs identity management.
//
// Unlike the catalog policy, reads are NOT exempt: user records carry email
// and bio, so every verb requires admin or superuser.
func AdminOnly(actor *sec.AuthClaims) error {
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !IsAdminActor(actor) {
		return apperr.Forbidden("Administrator privileges required")
	}
	return nil
}
