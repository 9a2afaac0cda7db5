// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/critika-app/critika/internal/platform/sec"
)

/*
TestUserRole_IsValid ensures the role enumeration is closed.
*/
func TestUserRole_IsValid(t *testing.T) {
	tests := []struct {
		name    string
		role    sec.UserRole
		isValid bool
	}{
		{"admin", sec.RoleAdmin, true},
		{"moderator", sec.RoleModerator, true},
		{"user", sec.RoleUser, true},
		{"empty", sec.UserRole(""), false},
		{"unknown_fifth_value", sec.UserRole("owner"), false},
		{"case_sensitive", sec.UserRole("Admin"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.role.IsValid())
		})
	}
}

/*
TestUserRole_Predicates checks the derived role checks used by policies.
*/
func TestUserRole_Predicates(t *testing.T) {
	assert.True(t, sec.RoleAdmin.IsAdmin())
	assert.False(t, sec.RoleAdmin.IsModerator())

	assert.True(t, sec.RoleModerator.IsModerator())
	assert.False(t, sec.RoleModerator.IsAdmin())

	assert.False(t, sec.RoleUser.IsAdmin())
	assert.False(t, sec.RoleUser.IsModerator())
}

/*
TestRoles_ContainsAllValidRoles verifies the enumeration listing.
*/
func TestRoles_ContainsAllValidRoles(t *testing.T) {
	roles := sec.Roles()
	assert.Len(t, roles, 3)

	for _, role := range roles {
		assert.True(t, role.IsValid())
	}
}
