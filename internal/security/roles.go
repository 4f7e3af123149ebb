package security

import "openshelf-backend/internal/domain"

// Permission names what a role may do. Staff endpoints check one of these;
// they never inspect the role string itself.
type Permission string

const (
	PermProcessCheckout Permission = "PROCESS_CHECKOUT"
	PermProcessCheckin  Permission = "PROCESS_CHECKIN"
	PermManagePatrons   Permission = "MANAGE_PATRONS"
	PermManageMaterials Permission = "MANAGE_MATERIALS"
	PermProcessPayments Permission = "PROCESS_PAYMENTS"
	PermManageHolds     Permission = "MANAGE_HOLDS"
	PermViewReports     Permission = "VIEW_REPORTS"
	PermRunBatch        Permission = "RUN_BATCH"
)

var rolePermissions = map[domain.Role][]Permission{
	domain.RoleAdmin: {
		PermProcessCheckout, PermProcessCheckin, PermManagePatrons,
		PermManageMaterials, PermProcessPayments, PermManageHolds,
		PermViewReports, PermRunBatch,
	},
	domain.RoleLibrarian: {
		PermProcessCheckout, PermProcessCheckin, PermManagePatrons,
		PermProcessPayments, PermManageHolds, PermViewReports,
	},
	domain.RolePatron: {},
}

// PermissionsFor returns the permission set of a role. Unknown roles get
// no permissions.
func PermissionsFor(role domain.Role) []Permission {
	return rolePermissions[role]
}

// HasPermission reports whether the claim set carries the permission.
func (c *UserClaims) HasPermission(p Permission) bool {
	for _, have := range c.Permissions {
		if have == p {
			return true
		}
	}
	return false
}
