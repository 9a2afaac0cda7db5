// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Why SQLSTATE classification matters here
//
// The review-integrity invariant (one review per user per title) and the
// registration uniqueness rules are enforced by database constraints, not by
// application pre-checks. Under concurrency, the constraint violation is the
// authoritative signal, so this package must translate it into the same
// client-facing Conflict the pre-check path produces.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/critika-app/critika/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violation mapping
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict("Resource already exists")
		case pgerrcode.ForeignKeyViolation:
			return ErrNotFound
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation, optionally matching a specific constraint name.
//
// Callers use this to distinguish WHICH invariant fired (e.g. the
// one-review-per-title constraint vs. the username index) and produce a
// domain-specific Conflict message.
func IsUniqueViolation(err error, constraint string) bool {
	var pgError *pgconn.PgError
	if !errors.As(err, &pgError) {
		return false
	}
	if pgError.Code != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || pgError.ConstraintName == constraint
}
