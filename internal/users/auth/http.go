// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/critika-app/critika/internal/platform/request"
	"github.com/critika-app/critika/internal/platform/respond"
	"github.com/critika-app/critika/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the two public entry points of the identity lifecycle
// (Registration, Token exchange). Profile and admin surfaces live in the
// account package.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /signup : Registers an identity and dispatches a confirmation code.
//   - POST /token  : Exchanges a confirmation code for a JWT.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/signup", handler.signup)
	router.Post("/token", handler.token)

	return router
}

// # Request Payloads

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

/*
Signup handles the creation of a new identity.

POST /api/v1/auth/signup

Description: Validates input, applies the uniqueness rules, persists the
identity, and dispatches a confirmation code out of band.

Request:
  - Body: signupRequest (Username, Email)

Response:
  - 200: Echoed {username, email}
  - 400: ErrInvalidJSON: Bad input, reserved username, or partial identity collision
  - 409: ErrConflict: Exact pair already registered (code re-dispatched)
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Username(FieldUsername, input.Username).
		MaxLen(FieldUsername, input.Username, UsernameMaxLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, EmailMaxLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Signup(request.Context(), SignupInput{
		Username: input.Username,
		Email:    input.Email,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The code travels out of band; the response only echoes the pair.
	respond.OK(writer, map[string]string{
		FieldUsername: user.Username,
		FieldEmail:    user.Email,
	})
}

/*
Token exchanges a confirmation code for a JWT access token.

POST /api/v1/auth/token

Description: Resolves the username, verifies the submitted confirmation code,
and mints a stateless access token on match.

Request:
  - Body: tokenRequest (Username, ConfirmationCode)

Response:
  - 200: {token}: Signed JWT
  - 400: Empty object: Code mismatch (reported, not thrown)
  - 404: ErrNotFound: Unknown username or no outstanding code
*/
func (handler *Handler) token(writer http.ResponseWriter, request *http.Request) {
	var input tokenRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldConfirmationCode, input.ConfirmationCode)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Exchange(request.Context(), input.Username, input.ConfirmationCode)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Mismatch: a bare 400 with an empty body, distinct from validation errors.
	if !result.Matched {
		respond.JSON(writer, http.StatusBadRequest, struct{}{})
		return
	}

	respond.OK(writer, map[string]string{
		FieldToken: result.AccessToken,
	})
}
