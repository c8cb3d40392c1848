package discord

import "golang.org/x/exp/slices"

// Permission bits of a role, as defined by the platform.
const (
	PermissionAdministrator uint64 = 0x8
	PermissionManageRoles   uint64 = 0x10000000
)

type Guild struct {
	ID      string
	OwnerID string
}

type Role struct {
	ID          string
	Name        string
	Position    int
	Permissions uint64

	// Managed roles belong to an integration and cannot be granted or
	// revoked by anyone.
	Managed bool
}

type Member struct {
	UserID  string
	Bot     bool
	RoleIDs []string
}

// HasRole reports whether the member currently holds the given role.
func (m Member) HasRole(roleID string) bool {
	return slices.Contains(m.RoleIDs, roleID)
}
