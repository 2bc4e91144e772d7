package models

import "slices"

// Role is the access level carried by a user and its tokens.
type Role string

const (
	// RoleOwner may create and delete content.
	RoleOwner Role = "owner"
	// RoleOther is any other authenticated account.
	RoleOther Role = "other"
)

// Roles lists every known role.
var Roles = []Role{RoleOwner, RoleOther} //nolint:gochecknoglobals

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

// In reports whether r is one of set.
func (r Role) In(set ...Role) bool {
	return slices.Contains(set, r)
}

func (r Role) String() string {
	return string(r)
}
