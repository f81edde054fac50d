package models

// Role is a rank in the moderation hierarchy. Values are stored as string
// codes so the schema survives reordering of the enum.
type Role string

const (
	RoleOwner      Role = "owner"
	RoleAdmin      Role = "admin"
	RoleModerator  Role = "moderator"
	RoleGuarantor  Role = "guarantor"
	RoleMember     Role = "member"
	RoleSanctioned Role = "sanctioned"
)

// AllRoles lists every role from highest to lowest privilege.
var AllRoles = []Role{RoleOwner, RoleAdmin, RoleModerator, RoleGuarantor, RoleMember, RoleSanctioned}

var roleRanks = map[Role]int{
	RoleOwner:     5,
	RoleAdmin:     4,
	RoleModerator: 3,
	RoleGuarantor: 2,
	// Member and Sanctioned are siblings at the bottom; neither grants roles.
	RoleMember:     1,
	RoleSanctioned: 1,
}

// ParseRole maps a stored or user-supplied code to a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := roleRanks[r]
	return r, ok
}

// Rank returns the role's position in the privilege order. Unknown roles
// rank below everything.
func (r Role) Rank() int {
	return roleRanks[r]
}

// IsAdministrator reports whether the role carries administrative privileges.
func (r Role) IsAdministrator() bool {
	return r == RoleOwner || r == RoleAdmin
}

// CanViewRoles reports whether the role may inspect role assignments.
func (r Role) CanViewRoles() bool {
	return r.IsAdministrator()
}

// CanAssign reports whether an actor with this role may grant or revoke the
// target role. An actor may assign any role strictly below their own rank,
// with one carve-out: a Guarantor may only vouch ordinary members in.
func (r Role) CanAssign(target Role) bool {
	if _, ok := roleRanks[target]; !ok {
		return false
	}
	switch r {
	case RoleMember, RoleSanctioned:
		return false
	case RoleGuarantor:
		return target == RoleMember
	default:
		return target.Rank() < r.Rank()
	}
}

// AssignableRoles returns the roles the actor may grant, highest first.
func (r Role) AssignableRoles() []Role {
	var out []Role
	for _, target := range AllRoles {
		if r.CanAssign(target) {
			out = append(out, target)
		}
	}
	return out
}
