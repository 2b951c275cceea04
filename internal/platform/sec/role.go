// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "slices"

// UserRole is the authorization level stored on users.account.role.
type UserRole string

const (
	// RoleMember rates, reviews and keeps libraries. Every new account gets it.
	RoleMember UserRole = "member"

	// RoleModerator curates the shared catalogue (authors).
	RoleModerator UserRole = "moderator"

	// RoleAdmin may also delete books, purge stale imports and act on any library.
	RoleAdmin UserRole = "admin"
)

// hierarchy lists roles from least to most privileged.
var hierarchy = []UserRole{RoleMember, RoleModerator, RoleAdmin}

// AtLeast reports whether r grants everything target grants. Unknown roles
// grant nothing.
func (r UserRole) AtLeast(target UserRole) bool {
	rank := slices.Index(hierarchy, r)
	return rank >= 0 && rank >= slices.Index(hierarchy, target)
}
