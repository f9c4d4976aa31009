package domain

import "strings"

// Role is a member's rank inside a group.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleViewer Role = "viewer"
)

var roleRank = map[Role]int{
	RoleViewer: 1,
	RoleUser:   2,
	RoleAdmin:  3,
	RoleOwner:  4,
}

// ParseRole normalises s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	_, ok := roleRank[r]
	return r, ok
}

// AtLeast reports whether r meets or exceeds minimum.
func (r Role) AtLeast(minimum Role) bool {
	return roleRank[r] >= roleRank[minimum] && roleRank[r] > 0
}

// Capability is a single gated action.
type Capability string

const (
	CanView               Capability = "view"
	CanEdit               Capability = "edit"
	CanCreate             Capability = "create"
	CanDelete             Capability = "delete"
	CanManageUsers        Capability = "manage_users"
	CanManageSubscription Capability = "manage_subscription"
)

// Permissions is the capability set granted to a role.
type Permissions struct {
	CanView               bool `json:"canView"`
	CanEdit               bool `json:"canEdit"`
	CanCreate             bool `json:"canCreate"`
	CanDelete             bool `json:"canDelete"`
	CanManageUsers        bool `json:"canManageUsers"`
	CanManageSubscription bool `json:"canManageSubscription"`
}

var rolePermissions = map[Role]Permissions{
	RoleOwner: {
		CanView: true, CanEdit: true, CanCreate: true, CanDelete: true,
		CanManageUsers: true, CanManageSubscription: true,
	},
	RoleAdmin: {
		CanView: true, CanEdit: true, CanCreate: true, CanDelete: true,
		CanManageUsers: true,
	},
	RoleUser: {
		CanView: true, CanEdit: true, CanCreate: true,
	},
	RoleViewer: {
		CanView: true,
	},
}

// PermissionsFor returns the static capability set of role. Unknown roles get nothing.
func PermissionsFor(role Role) Permissions {
	return rolePermissions[role]
}

// Allows reports whether the set grants c.
func (p Permissions) Allows(c Capability) bool {
	switch c {
	case CanView:
		return p.CanView
	case CanEdit:
		return p.CanEdit
	case CanCreate:
		return p.CanCreate
	case CanDelete:
		return p.CanDelete
	case CanManageUsers:
		return p.CanManageUsers
	case CanManageSubscription:
		return p.CanManageSubscription
	}
	return false
}

// CanAssignRole reports whether actor may grant target to another member.
// Nobody hands out ownership; only the owner creates admins.
func CanAssignRole(actor, target Role) bool {
	switch target {
	case RoleOwner:
		return false
	case RoleAdmin:
		return actor == RoleOwner
	case RoleUser, RoleViewer:
		return PermissionsFor(actor).CanManageUsers
	}
	return false
}
