package session

import "cleanops/internal/model"

// Capability names a boolean permission gated by role.
type Capability string

const (
	CanManageUsers     Capability = "canManageUsers"
	CanCreateServices  Capability = "canCreateServices"
	CanConfirmServices Capability = "canConfirmServices"
	CanManageDiscounts Capability = "canManageDiscounts"
	CanManageLocations Capability = "canManageLocations"
	CanViewReports     Capability = "canViewReports"
)

// permissionSet is the static role to capability table. Every role in the
// closed enumeration has an entry.
var permissionSet = map[model.Role]map[Capability]bool{
	model.RoleAdmin: {
		CanManageUsers:     true,
		CanCreateServices:  true,
		CanConfirmServices: true,
		CanManageDiscounts: true,
		CanManageLocations: true,
		CanViewReports:     true,
	},
	model.RoleUser: {
		CanManageUsers:     false,
		CanCreateServices:  true,
		CanConfirmServices: false,
		CanManageDiscounts: false,
		CanManageLocations: true,
		CanViewReports:     false,
	},
}

// PermissionsFor returns the capability row for a role. Unknown roles
// default to the user row, never to elevated access.
func PermissionsFor(role model.Role) map[Capability]bool {
	if set, ok := permissionSet[role]; ok {
		return set
	}
	return permissionSet[model.RoleUser]
}

// HasPermission reports whether the role grants the capability.
func HasPermission(role model.Role, c Capability) bool {
	return PermissionsFor(role)[c]
}
