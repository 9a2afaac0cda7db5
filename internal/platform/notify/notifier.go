// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

// Package notify defines the out-of-band message delivery collaborator.
//
// # Architecture
//
// Confirmation codes leave the system through a [Notifier]. Delivery is
// fire-and-forget: a failed dispatch is logged and never propagated to the
// caller, so a broken mail relay can't block registration.
package notify

import (
	"context"
	"log/slog"
)

// Notifier delivers a one-time confirmation code to an address.
type Notifier interface {
	/*
		SendConfirmationCode dispatches the code to the recipient address.

		Parameters:
		  - context: context.Context
		  - email: string (Recipient address)
		  - code: string (One-time confirmation code)

		Returns:
		  - error: Transport failures (callers treat these as non-fatal)
	*/
	SendConfirmationCode(context context.Context, email, code string) error
}

// LogNotifier is the default [Notifier] that writes codes to the structured
// log instead of a real channel. Used in development and in tests.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs a log-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// SendConfirmationCode implements [Notifier] by logging the dispatch.
func (notifier *LogNotifier) SendConfirmationCode(context context.Context, email, code string) error {
	notifier.logger.InfoContext(context, "confirmation_code_dispatched",
		slog.String("email", email),
	)
	// The code itself stays out of the log line above; emit it at debug level
	// only, so development setups can complete the flow without a mailbox.
	notifier.logger.DebugContext(context, "confirmation_code_value",
		slog.String("email", email),
		slog.String("code", code),
	)
	return nil
}
