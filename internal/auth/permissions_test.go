package auth

import "testing"

func TestPermissionsForRole(t *testing.T) {
	for _, role := range []Role{RoleTenantAdmin, RoleHospitalAdmin, RoleServiceManager, RoleCollaborator} {
		if len(PermissionsForRole(role)) == 0 {
			t.Errorf("role %s has no permissions", role)
		}
	}

	if perms := PermissionsForRole(Role("intern")); perms != nil {
		t.Errorf("unknown role must get no permissions, got %v", perms)
	}
}

func TestHasPermissionExactMatch(t *testing.T) {
	granted := PermissionsForRole(RoleCollaborator)

	if !HasPermission(granted, "patients:read") {
		t.Error("collaborator should read patients")
	}
	if !HasPermission(granted, "indicators:update") {
		t.Error("collaborator should update indicators")
	}
	if HasPermission(granted, "patients:delete") {
		t.Error("collaborator must not delete patients")
	}
	if HasPermission(granted, "users:read") {
		t.Error("collaborator must not read users")
	}
}

func TestHasPermissionWildcard(t *testing.T) {
	granted := PermissionsForRole(RoleHospitalAdmin)

	if !HasPermission(granted, "patients:delete") {
		t.Error("patients:* should cover patients:delete")
	}
	if !HasPermission(granted, "hospitals:read") {
		t.Error("hospital_admin should read hospitals")
	}
	if HasPermission(granted, "hospitals:delete") {
		t.Error("hospital_admin must not delete hospitals")
	}
}

func TestHasPermissionSuperPermission(t *testing.T) {
	granted := PermissionsForRole(RoleTenantAdmin)

	for _, required := range []string{"patients:delete", "hospitals:delete", "reports:read", "anything:at-all"} {
		if !HasPermission(granted, required) {
			t.Errorf("tenant:manage should cover %s", required)
		}
	}
}

func TestHasPermissionEmptyGrant(t *testing.T) {
	if HasPermission(nil, "patients:read") {
		t.Error("empty grant must not satisfy anything")
	}
}
