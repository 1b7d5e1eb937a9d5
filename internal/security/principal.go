package security

import "github.com/pnci1029/Football-Club-sub002/internal/model"

// RoleSuperAdmin is a legacy role string treated as equivalent to the
// master privilege level. Both checks are kept deliberately.
const RoleSuperAdmin = "SUPER_ADMIN"

// Principal is the authenticated administrator identity for one
// request. It is derived from the credential store, never persisted,
// and discarded when the request finishes.
type Principal struct {
	ID                uint
	Username          string
	Role              string
	PrivilegeLevel    string
	AssignedSubdomain string
	Active            bool
}

// IsMaster reports whether the principal is unrestricted. The legacy
// SUPER_ADMIN role passes alongside the master privilege level.
func (p *Principal) IsMaster() bool {
	return p.PrivilegeLevel == model.PrivilegeMaster || p.Role == RoleSuperAdmin
}

// principalFromModel maps a stored administrator row to a request principal
func principalFromModel(admin *model.Administrator) *Principal {
	return &Principal{
		ID:                admin.ID,
		Username:          admin.Username,
		Role:              admin.Role,
		PrivilegeLevel:    admin.PrivilegeLevel,
		AssignedSubdomain: admin.AssignedSubdomain,
		Active:            admin.Active,
	}
}
