package domain

// Role is the closed set of user roles. Capabilities are derived from the tag
// and never stored.
type Role string

const (
	RoleMasterAdmin      Role = "master_admin"
	RoleTenantOwner      Role = "tenant_owner"
	RoleManager          Role = "manager"
	RoleGeneralManager   Role = "general_manager"
	RoleInventoryManager Role = "inventory_manager"
	RoleSupervisor       Role = "supervisor"
	RoleAttendant        Role = "attendant"
	RoleAccountant       Role = "accountant"
	RoleVendor           Role = "vendor"
	RoleDistributor      Role = "distributor"
	RoleEmployee         Role = "employee"
	RoleCustom           Role = "custom"
)

var allRoles = []Role{
	RoleMasterAdmin, RoleTenantOwner, RoleManager, RoleGeneralManager,
	RoleInventoryManager, RoleSupervisor, RoleAttendant, RoleAccountant,
	RoleVendor, RoleDistributor, RoleEmployee, RoleCustom,
}

// Roles returns every known role
func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) IsMasterAdmin() bool { return r == RoleMasterAdmin }

func (r Role) IsTenantOwner() bool { return r == RoleTenantOwner }

// CanCreateMembers is the member and permission management shortcut
func (r Role) CanCreateMembers() bool {
	return r == RoleMasterAdmin || r == RoleTenantOwner
}

func (r Role) String() string { return string(r) }
