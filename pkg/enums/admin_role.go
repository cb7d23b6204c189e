package enums

import "fmt"

// AdminRole maps to the admin_role enum in Postgres.
type AdminRole string

const (
	AdminRoleManager    AdminRole = "manager"
	AdminRoleSuperAdmin AdminRole = "super_admin"
)

var validAdminRoles = []AdminRole{
	AdminRoleManager,
	AdminRoleSuperAdmin,
}

// String implements fmt.Stringer.
func (r AdminRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known AdminRole.
func (r AdminRole) IsValid() bool {
	for _, candidate := range validAdminRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// CanManageAdmins reports whether the role may create or remove admin accounts.
func (r AdminRole) CanManageAdmins() bool {
	return r == AdminRoleSuperAdmin
}

// CanManageSettings reports whether the role may edit runtime settings.
func (r AdminRole) CanManageSettings() bool {
	return r == AdminRoleSuperAdmin
}

// ParseAdminRole converts raw input into an AdminRole.
func ParseAdminRole(value string) (AdminRole, error) {
	for _, candidate := range validAdminRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid admin role %q", value)
}
