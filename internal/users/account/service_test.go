// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package account

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critika-app/critika/internal/platform/apperr"
	"github.com/critika-app/critika/internal/platform/sec"
	"github.com/critika-app/critika/internal/users/auth"
	"github.com/critika-app/critika/pkg/pagination"
	"github.com/critika-app/critika/pkg/pointer"
)

// # Test Doubles

type fakeAccountRepository struct {
	users []*auth.User
}

func (repo *fakeAccountRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeAccountRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeAccountRepository) List(_ context.Context, search string, params pagination.Params) ([]*auth.User, int64, error) {
	matched := []*auth.User{}
	for _, user := range repo.users {
		if search == "" || strings.Contains(user.Username, search) {
			matched = append(matched, user)
		}
	}
	return matched, int64(len(matched)), nil
}

func (repo *fakeAccountRepository) Create(_ context.Context, user *auth.User) error {
	repo.users = append(repo.users, user)
	return nil
}

func (repo *fakeAccountRepository) Update(_ context.Context, user *auth.User) error {
	for index, existing := range repo.users {
		if existing.ID == user.ID {
			repo.users[index] = user
			return nil
		}
	}
	return apperr.NotFound("User")
}

func (repo *fakeAccountRepository) DeleteByUsername(_ context.Context, username string) error {
	for index, existing := range repo.users {
		if existing.Username == username {
			repo.users = append(repo.users[:index], repo.users[index+1:]...)
			return nil
		}
	}
	return apperr.NotFound("User")
}

func newTestService() (*Service, *fakeAccountRepository) {
	repo := &fakeAccountRepository{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, logger), repo
}

func seedUser(repo *fakeAccountRepository, id, username string, role sec.UserRole, superuser bool) *auth.User {
	user := &auth.User{
		ID: id, Username: username, Email: username + "@example.com",
		Role: role, IsSuperuser: superuser,
	}
	repo.users = append(repo.users, user)
	return user
}

// # Profile Updates

/*
TestUpdateProfile_RoleFrozenForNonAdmins verifies that a member submitting a
role change keeps their stored role, without an error.
*/
func TestUpdateProfile_RoleFrozenForNonAdmins(t *testing.T) {
	service, repo := newTestService()
	seedUser(repo, "u1", "reader", sec.RoleUser, false)

	user, err := service.UpdateProfile(context.Background(), "u1", UpdateInput{
		Bio:  pointer.To("I review things."),
		Role: pointer.To("admin"),
	}, false)

	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.Equal(t, "I review things.", user.Bio)
}

/*
TestUpdateProfile_AdminMaySetRole verifies that admins can promote, but only
to enumerated roles.
*/
func TestUpdateProfile_AdminMaySetRole(t *testing.T) {
	service, repo := newTestService()
	seedUser(repo, "u1", "reader", sec.RoleUser, false)

	user, err := service.UpdateProfile(context.Background(), "u1", UpdateInput{
		Role: pointer.To("moderator"),
	}, true)

	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, user.Role)

	// A fifth role value never passes validation.
	_, err = service.UpdateProfile(context.Background(), "u1", UpdateInput{
		Role: pointer.To("owner"),
	}, true)

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
}

/*
TestUpdateProfile_SuperuserNormalization verifies that a superuser row ends up
with the admin role after any persist, whatever was submitted.
*/
func TestUpdateProfile_SuperuserNormalization(t *testing.T) {
	service, repo := newTestService()
	seedUser(repo, "root-1", "root", sec.RoleUser, true)

	user, err := service.UpdateProfile(context.Background(), "root-1", UpdateInput{
		Role: pointer.To("user"),
	}, true)

	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, user.Role)
	assert.True(t, user.IsSuperuser)
}

// # Administrative Management

/*
TestCreateUser verifies admin provisioning: explicit role, no code dispatch,
reserved username rejected.
*/
func TestCreateUser(t *testing.T) {
	service, repo := newTestService()

	user, err := service.CreateUser(context.Background(), CreateInput{
		Username: "mod", Email: "mod@example.com", Role: "moderator",
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, user.Role)
	assert.Len(t, repo.users, 1)

	// Defaults to member role when unspecified.
	user, err = service.CreateUser(context.Background(), CreateInput{
		Username: "plain", Email: "plain@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, user.Role)

	// Reserved self-profile segment.
	_, err = service.CreateUser(context.Background(), CreateInput{
		Username: "ME", Email: "me@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)

	// Unknown role.
	_, err = service.CreateUser(context.Background(), CreateInput{
		Username: "odd", Email: "odd@example.com", Role: "owner",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
}

/*
TestListUsers verifies username substring filtering.
*/
func TestListUsers(t *testing.T) {
	service, repo := newTestService()
	seedUser(repo, "u1", "alice", sec.RoleUser, false)
	seedUser(repo, "u2", "alicia", sec.RoleUser, false)
	seedUser(repo, "u3", "bob", sec.RoleUser, false)

	users, total, err := service.ListUsers(context.Background(), "ali", pagination.Params{Page: 1, Limit: 20})

	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 2)
}

/*
TestDeleteByUsername verifies deletion and the not-found outcome.
*/
func TestDeleteByUsername(t *testing.T) {
	service, repo := newTestService()
	seedUser(repo, "u1", "alice", sec.RoleUser, false)

	require.NoError(t, service.DeleteByUsername(context.Background(), "alice"))
	assert.Empty(t, repo.users)

	err := service.DeleteByUsername(context.Background(), "alice")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}
