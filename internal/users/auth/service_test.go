// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critika-app/critika/internal/platform/apperr"
	"github.com/critika-app/critika/internal/platform/sec"
)

// # Test Doubles

type fakeUserRepository struct {
	users []*User
}

func (repo *fakeUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	for _, user := range repo.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	for _, user := range repo.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range repo.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) Create(_ context.Context, user *User) error {
	repo.users = append(repo.users, user)
	return nil
}

type fakeCodeRepository struct {
	codes map[string]string
}

func newFakeCodeRepository() *fakeCodeRepository {
	return &fakeCodeRepository{codes: make(map[string]string)}
}

func (repo *fakeCodeRepository) FetchOrStore(_ context.Context, userID, candidate string, _ time.Duration) (string, error) {
	if existing, found := repo.codes[userID]; found {
		return existing, nil
	}
	repo.codes[userID] = candidate
	return candidate, nil
}

func (repo *fakeCodeRepository) Get(_ context.Context, userID string) (string, error) {
	code, found := repo.codes[userID]
	if !found {
		return "", apperr.NotFound("Confirmation code")
	}
	return code, nil
}

func (repo *fakeCodeRepository) Delete(_ context.Context, userID string) error {
	delete(repo.codes, userID)
	return nil
}

type recordingNotifier struct {
	emails []string
	codes  []string
}

func (notifier *recordingNotifier) SendConfirmationCode(_ context.Context, email, code string) error {
	notifier.emails = append(notifier.emails, email)
	notifier.codes = append(notifier.codes, code)
	return nil
}

type stubTokenProvider struct{}

func (stubTokenProvider) GenerateAccessToken(userID, _, role string, superuser bool, _ time.Duration) (string, error) {
	token := "token-for-" + userID + "-as-" + role
	if superuser {
		token += "-super"
	}
	return token, nil
}

func newTestService() (*Service, *fakeUserRepository, *fakeCodeRepository, *recordingNotifier) {
	userRepo := &fakeUserRepository{}
	codeRepo := newFakeCodeRepository()
	notifier := &recordingNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewService(userRepo, codeRepo, stubTokenProvider{}, notifier, logger)
	return service, userRepo, codeRepo, notifier
}

// # Registration

/*
TestSignup_CreatesUserAndDispatchesCode verifies the happy path: an identity
is created with the member role and exactly one code goes out.
*/
func TestSignup_CreatesUserAndDispatchesCode(t *testing.T) {
	service, userRepo, codeRepo, notifier := newTestService()

	user, err := service.Signup(context.Background(), SignupInput{
		Username: "reader",
		Email:    "reader@example.com",
	})

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.False(t, user.IsSuperuser)

	// Exactly one identity, one outstanding code, one dispatch.
	assert.Len(t, userRepo.users, 1)
	assert.Len(t, codeRepo.codes, 1)
	require.Len(t, notifier.emails, 1)
	assert.Equal(t, "reader@example.com", notifier.emails[0])
}

/*
TestSignup_ReservedUsername verifies the self-profile path segment can never
name an account, regardless of letter case.
*/
func TestSignup_ReservedUsername(t *testing.T) {
	service, userRepo, _, _ := newTestService()

	for _, username := range []string{"me", "Me", "ME"} {
		_, err := service.Signup(context.Background(), SignupInput{
			Username: username,
			Email:    "me@example.com",
		})

		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	}

	assert.Empty(t, userRepo.users)
}

/*
TestSignup_ExactPairReissuesCode verifies idempotent re-registration: the
SAME outstanding code is re-dispatched and a Conflict is returned, without
creating a second row.
*/
func TestSignup_ExactPairReissuesCode(t *testing.T) {
	service, userRepo, _, notifier := newTestService()

	input := SignupInput{Username: "reader", Email: "reader@example.com"}
	_, err := service.Signup(context.Background(), input)
	require.NoError(t, err)
	firstCode := notifier.codes[0]

	_, err = service.Signup(context.Background(), input)
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusConflict, ae.HTTPStatus)

	// Still one row; the second dispatch carried the original code.
	assert.Len(t, userRepo.users, 1)
	require.Len(t, notifier.codes, 2)
	assert.Equal(t, firstCode, notifier.codes[1])
}

/*
TestSignup_PartialCollisions verifies that reusing only one half of the
(username, email) pair is a validation failure, not a conflict.
*/
func TestSignup_PartialCollisions(t *testing.T) {
	service, userRepo, _, _ := newTestService()

	_, err := service.Signup(context.Background(), SignupInput{
		Username: "reader", Email: "reader@example.com",
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input SignupInput
	}{
		{"username_taken_by_other_email", SignupInput{Username: "reader", Email: "other@example.com"}},
		{"email_taken_by_other_username", SignupInput{Username: "other", Email: "reader@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Signup(context.Background(), tt.input)

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
			assert.NotEmpty(t, ae.Details)
		})
	}

	assert.Len(t, userRepo.users, 1)
}

// # Token Exchange

/*
TestExchange_UnknownUsername verifies a 404 outcome for usernames that were
never registered.
*/
func TestExchange_UnknownUsername(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.Exchange(context.Background(), "ghost", "whatever")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}

/*
TestExchange_NoOutstandingCode verifies a 404 outcome when the user exists
but no code is live (expired or already consumed).
*/
func TestExchange_NoOutstandingCode(t *testing.T) {
	service, userRepo, _, _ := newTestService()
	userRepo.users = append(userRepo.users, &User{
		ID: "user-1", Username: "reader", Email: "reader@example.com", Role: sec.RoleUser,
	})

	_, err := service.Exchange(context.Background(), "reader", "whatever")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}

/*
TestExchange_Mismatch verifies that a wrong code is a reported failure
(Matched=false) rather than an error, and the code stays outstanding.
*/
func TestExchange_Mismatch(t *testing.T) {
	service, _, codeRepo, notifier := newTestService()

	_, err := service.Signup(context.Background(), SignupInput{
		Username: "reader", Email: "reader@example.com",
	})
	require.NoError(t, err)

	result, err := service.Exchange(context.Background(), "reader", "not-the-code")

	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Empty(t, result.AccessToken)

	// The outstanding code survives a failed attempt.
	stored, err := codeRepo.Get(context.Background(), keyOfOnly(codeRepo))
	require.NoError(t, err)
	assert.Equal(t, notifier.codes[0], stored)
}

/*
TestExchange_MatchMintsTokenAndConsumesCode verifies the full success path.
*/
func TestExchange_MatchMintsTokenAndConsumesCode(t *testing.T) {
	service, _, codeRepo, notifier := newTestService()

	_, err := service.Signup(context.Background(), SignupInput{
		Username: "reader", Email: "reader@example.com",
	})
	require.NoError(t, err)

	result, err := service.Exchange(context.Background(), "reader", notifier.codes[0])

	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.NotEmpty(t, result.AccessToken)

	// One-time semantics: the code is gone.
	assert.Empty(t, codeRepo.codes)
}

/*
TestExchange_SuperuserClaim verifies the superuser flag is normalized into
the admin role before the token is minted.
*/
func TestExchange_SuperuserClaim(t *testing.T) {
	service, userRepo, codeRepo, _ := newTestService()
	userRepo.users = append(userRepo.users, &User{
		ID: "root-1", Username: "root", Email: "root@example.com",
		Role: sec.RoleUser, IsSuperuser: true,
	})
	codeRepo.codes["root-1"] = "root-code"

	result, err := service.Exchange(context.Background(), "root", "root-code")

	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.Equal(t, "token-for-root-1-as-admin-super", result.AccessToken)
}

// keyOfOnly returns the single key held by the fake code repository.
func keyOfOnly(repo *fakeCodeRepository) string {
	for key := range repo.codes {
		return key
	}
	return ""
}
