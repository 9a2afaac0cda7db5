// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package auth

import "time"

// # Identity Constraints

const (
	// UsernameMaxLength mirrors the storage column width.
	UsernameMaxLength = 150

	// EmailMaxLength is the RFC 5321 path limit enforced at the edge.
	EmailMaxLength = 254

	// ReservedUsername is the path segment used for the self-profile endpoint
	// and can therefore never name an account.
	ReservedUsername = "me"
)

// # Token Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// One day: there is no refresh flow, the client simply re-exchanges
	// its confirmation code or re-registers.
	AccessTokenTTL = 24 * time.Hour

	// ConfirmationCodeLength is the byte length of the random confirmation code.
	ConfirmationCodeLength = 20

	// ConfirmationCodeTTL is how long an outstanding confirmation code remains
	// exchangeable. Long-lived (7 days) as delivery is out of band.
	ConfirmationCodeTTL = 7 * 24 * time.Hour
)
