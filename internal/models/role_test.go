package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAssign(t *testing.T) {
	cases := []struct {
		actor  Role
		target Role
		want   bool
	}{
		{RoleOwner, RoleAdmin, true},
		{RoleOwner, RoleModerator, true},
		{RoleOwner, RoleGuarantor, true},
		{RoleOwner, RoleMember, true},
		{RoleOwner, RoleSanctioned, true},
		{RoleOwner, RoleOwner, false},

		{RoleAdmin, RoleModerator, true},
		{RoleAdmin, RoleSanctioned, true},
		{RoleAdmin, RoleAdmin, false},
		{RoleAdmin, RoleOwner, false},

		{RoleModerator, RoleGuarantor, true},
		{RoleModerator, RoleMember, true},
		{RoleModerator, RoleModerator, false},
		{RoleModerator, RoleAdmin, false},

		// Guarantors only vouch ordinary members in
		{RoleGuarantor, RoleMember, true},
		{RoleGuarantor, RoleSanctioned, false},
		{RoleGuarantor, RoleGuarantor, false},

		{RoleMember, RoleMember, false},
		{RoleMember, RoleSanctioned, false},
		{RoleSanctioned, RoleMember, false},
		{RoleSanctioned, RoleSanctioned, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.actor.CanAssign(tc.target), "%s assigning %s", tc.actor, tc.target)
	}
}

func TestCanAssignUnknownRole(t *testing.T) {
	assert.False(t, RoleOwner.CanAssign(Role("superuser")))
}

func TestIsAdministrator(t *testing.T) {
	assert.True(t, RoleOwner.IsAdministrator())
	assert.True(t, RoleAdmin.IsAdministrator())
	assert.False(t, RoleModerator.IsAdministrator())
	assert.False(t, RoleGuarantor.IsAdministrator())
	assert.False(t, RoleMember.IsAdministrator())
	assert.False(t, RoleSanctioned.IsAdministrator())
}

func TestAssignableRoles(t *testing.T) {
	assert.Equal(t, []Role{RoleAdmin, RoleModerator, RoleGuarantor, RoleMember, RoleSanctioned}, RoleOwner.AssignableRoles())
	assert.Equal(t, []Role{RoleMember}, RoleGuarantor.AssignableRoles())
	assert.Empty(t, RoleMember.AssignableRoles())
	assert.Empty(t, RoleSanctioned.AssignableRoles())
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("moderator")
	assert.True(t, ok)
	assert.Equal(t, RoleModerator, role)

	_, ok = ParseRole("superuser")
	assert.False(t, ok)
}
