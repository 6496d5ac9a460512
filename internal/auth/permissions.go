package auth

import "strings"

// Role is a tenant-scoped user role
type Role string

const (
	RoleTenantAdmin    Role = "tenant_admin"
	RoleHospitalAdmin  Role = "hospital_admin"
	RoleServiceManager Role = "service_manager"
	RoleCollaborator   Role = "collaborator"
)

// PermissionTenantManage is the super-permission granting everything
const PermissionTenantManage = "tenant:manage"

// rolePermissions is the authoritative role to permission mapping.
// Adding a role requires an explicit entry here; unknown roles get no
// permissions.
var rolePermissions = map[Role][]string{
	RoleTenantAdmin: {
		PermissionTenantManage,
	},
	RoleHospitalAdmin: {
		"hospitals:read", "hospitals:update",
		"services:*",
		"users:*",
		"patients:*",
		"indicators:*",
		"reports:read",
	},
	RoleServiceManager: {
		"services:read",
		"users:read",
		"patients:*",
		"indicators:*",
		"reports:read",
	},
	RoleCollaborator: {
		"patients:read", "patients:create", "patients:update",
		"indicators:create", "indicators:read", "indicators:update",
	},
}

// ValidRole reports whether the role is known
func ValidRole(role Role) bool {
	_, ok := rolePermissions[role]
	return ok
}

// PermissionsForRole returns the permission set for a role. Unknown
// roles return nil rather than defaulting to anything.
func PermissionsForRole(role Role) []string {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// HasPermission reports whether the granted set satisfies the required
// permission: an exact match, a "resource:*" wildcard, or the
// tenant:manage super-permission.
func HasPermission(granted []string, required string) bool {
	resource, _, _ := strings.Cut(required, ":")
	wildcard := resource + ":*"

	for _, p := range granted {
		if p == required || p == wildcard || p == PermissionTenantManage {
			return true
		}
	}
	return false
}
