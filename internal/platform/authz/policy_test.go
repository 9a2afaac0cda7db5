// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package authz_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critika-app/critika/internal/platform/apperr"
	"github.com/critika-app/critika/internal/platform/authz"
	"github.com/critika-app/critika/internal/platform/sec"
)

func claimsWithRole(role sec.UserRole) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "actor-1", Username: "actor", Role: string(role)}
}

func superuserClaims() *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "root-1", Username: "root", Role: string(sec.RoleUser), Superuser: true}
}

/*
TestReadOnlyElseAdmin covers the catalog policy matrix.
*/
func TestReadOnlyElseAdmin(t *testing.T) {
	tests := []struct {
		name       string
		actor      *sec.AuthClaims
		method     string
		wantStatus int // 0 means allowed
	}{
		{"anonymous_get", nil, http.MethodGet, 0},
		{"anonymous_head", nil, http.MethodHead, 0},
		{"anonymous_post", nil, http.MethodPost, http.StatusUnauthorized},
		{"user_post", claimsWithRole(sec.RoleUser), http.MethodPost, http.StatusForbidden},
		{"moderator_delete", claimsWithRole(sec.RoleModerator), http.MethodDelete, http.StatusForbidden},
		{"admin_post", claimsWithRole(sec.RoleAdmin), http.MethodPost, 0},
		{"admin_patch", claimsWithRole(sec.RoleAdmin), http.MethodPatch, 0},
		{"superuser_post", superuserClaims(), http.MethodPost, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authz.ReadOnlyElseAdmin(tt.actor, tt.method)

			if tt.wantStatus == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantStatus, ae.HTTPStatus)
		})
	}
}

/*
TestAuthorOrModeratorElseReadOnly covers the review/comment policy matrix.
*/
func TestAuthorOrModeratorElseReadOnly(t *testing.T) {
	author := &sec.AuthClaims{UserID: "author-1", Role: string(sec.RoleUser)}
	stranger := &sec.AuthClaims{UserID: "stranger-1", Role: string(sec.RoleUser)}

	tests := []struct {
		name       string
		actor      *sec.AuthClaims
		method     string
		ownerID    string
		wantStatus int
	}{
		{"anonymous_read", nil, http.MethodGet, "author-1", 0},
		{"anonymous_write_rejected_before_ownership", nil, http.MethodPost, "", http.StatusUnauthorized},
		{"anonymous_delete", nil, http.MethodDelete, "author-1", http.StatusUnauthorized},
		{"authenticated_create", author, http.MethodPost, "", 0},
		{"author_edits_own", author, http.MethodPatch, "author-1", 0},
		{"stranger_edits_other", stranger, http.MethodPatch, "author-1", http.StatusForbidden},
		{"moderator_edits_other", claimsWithRole(sec.RoleModerator), http.MethodDelete, "author-1", 0},
		{"admin_edits_other", claimsWithRole(sec.RoleAdmin), http.MethodDelete, "author-1", 0},
		{"superuser_edits_other", superuserClaims(), http.MethodPatch, "author-1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authz.AuthorOrModeratorElseReadOnly(tt.actor, tt.method, tt.ownerID)

			if tt.wantStatus == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantStatus, ae.HTTPStatus)
		})
	}
}

/*
TestAdminOnly checks that identity management denies object-level reads
to non-admins, unlike the other policies.
*/
func TestAdminOnly(t *testing.T) {
	tests := []struct {
		name       string
		actor      *sec.AuthClaims
		wantStatus int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"plain_user", claimsWithRole(sec.RoleUser), http.StatusForbidden},
		{"moderator", claimsWithRole(sec.RoleModerator), http.StatusForbidden},
		{"admin", claimsWithRole(sec.RoleAdmin), 0},
		{"superuser", superuserClaims(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authz.AdminOnly(tt.actor)

			if tt.wantStatus == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantStatus, ae.HTTPStatus)
		})
	}
}
