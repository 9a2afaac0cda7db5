// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// The set is closed: [UserRole.IsValid] is the single gate every write path
// must pass, so a fifth string value can never reach storage.
type UserRole string

const (
	// Unrestricted system access, including identity management
	RoleAdmin UserRole = "admin"

	// Can edit or delete any review and comment regardless of authorship
	RoleModerator UserRole = "moderator"

	// Default role for standard registered reviewers
	RoleUser UserRole = "user"
)

// Roles lists every valid role, in descending order of privilege.
func Roles() []UserRole {
	return []UserRole{RoleAdmin, RoleModerator, RoleUser}
}

// IsValid reports whether the role belongs to the closed enumeration.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	default:
		return false
	}
}

// # Derived Predicates

// IsAdmin reports whether the role grants administrative access.
func (r UserRole) IsAdmin() bool { return r == RoleAdmin }

// IsModerator reports whether the role grants moderation access.
func (r UserRole) IsModerator() bool { return r == RoleModerator }
