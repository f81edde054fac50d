package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-moderator/internal/models"
)

func newTestRoles() (*RoleService, *fakeAccountStore, *fakeAuditStore) {
	accounts := newFakeAccountStore()
	audit := &fakeAuditStore{}
	return NewRoleService(accounts, audit), accounts, audit
}

func actorWithRole(role models.Role) *models.Account {
	return &models.Account{TelegramID: 1, Role: role}
}

func TestAssignByOwner(t *testing.T) {
	svc, accounts, _ := newTestRoles()
	accounts.accounts[200] = &models.Account{TelegramID: 200, Role: models.RoleMember}

	previous, err := svc.Assign(actorWithRole(models.RoleOwner), 200, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, previous)
	assert.Equal(t, models.RoleAdmin, accounts.accounts[200].Role)

	// Role update and audit entry land together
	require.Len(t, accounts.auditTrail, 1)
	entry := accounts.auditTrail[0]
	assert.Equal(t, models.AuditRoleAssigned, entry.ActionKind)
	assert.Equal(t, int64(200), entry.TargetID)
	assert.Equal(t, "from=member to=admin", entry.Details)
}

func TestAssignRejectedBelowRank(t *testing.T) {
	svc, accounts, _ := newTestRoles()
	accounts.accounts[200] = &models.Account{TelegramID: 200, Role: models.RoleMember}

	cases := []struct {
		actor models.Role
		grant models.Role
	}{
		{models.RoleAdmin, models.RoleAdmin},
		{models.RoleAdmin, models.RoleOwner},
		{models.RoleModerator, models.RoleModerator},
		{models.RoleGuarantor, models.RoleSanctioned},
		{models.RoleGuarantor, models.RoleModerator},
		{models.RoleMember, models.RoleMember},
		{models.RoleSanctioned, models.RoleMember},
	}
	for _, tc := range cases {
		_, err := svc.Assign(actorWithRole(tc.actor), 200, tc.grant)
		assert.ErrorIs(t, err, ErrPermissionDenied, "%s granting %s", tc.actor, tc.grant)
	}

	// Denied attempts leave no trace
	assert.Equal(t, models.RoleMember, accounts.accounts[200].Role)
	assert.Empty(t, accounts.auditTrail)
}

func TestGuarantorMayOnlyVouchMembers(t *testing.T) {
	svc, accounts, _ := newTestRoles()
	accounts.accounts[200] = &models.Account{TelegramID: 200, Role: models.RoleSanctioned}

	previous, err := svc.Assign(actorWithRole(models.RoleGuarantor), 200, models.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSanctioned, previous)
	assert.Equal(t, models.RoleMember, accounts.accounts[200].Role)
}

func TestAssignPolicyCheckedBeforeTargetLookup(t *testing.T) {
	svc, _, _ := newTestRoles()

	// Unknown target, but the policy rejection comes first
	_, err := svc.Assign(actorWithRole(models.RoleMember), 999, models.RoleMember)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestAssignUnknownTarget(t *testing.T) {
	svc, _, _ := newTestRoles()

	_, err := svc.Assign(actorWithRole(models.RoleOwner), 999, models.RoleAdmin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssignNilActor(t *testing.T) {
	svc, _, _ := newTestRoles()

	_, err := svc.Assign(nil, 200, models.RoleMember)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestListByRoleRequiresAdministrator(t *testing.T) {
	svc, accounts, _ := newTestRoles()
	accounts.accounts[200] = &models.Account{TelegramID: 200, Role: models.RoleModerator}
	accounts.accounts[201] = &models.Account{TelegramID: 201, Role: models.RoleModerator}

	_, err := svc.ListByRole(actorWithRole(models.RoleModerator), models.RoleModerator)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	listed, err := svc.ListByRole(actorWithRole(models.RoleAdmin), models.RoleModerator)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestRecentAuditRequiresAdministrator(t *testing.T) {
	svc, _, audit := newTestRoles()
	require.NoError(t, audit.Append(&models.AuditLogEntry{ActorID: 1, ActionKind: models.AuditRoleAssigned}))
	require.NoError(t, audit.Append(&models.AuditLogEntry{ActorID: 1, ActionKind: models.AuditBanApplied}))

	_, err := svc.RecentAudit(actorWithRole(models.RoleGuarantor), 10)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	entries, err := svc.RecentAudit(actorWithRole(models.RoleOwner), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first
	assert.Equal(t, models.AuditBanApplied, entries[0].ActionKind)
}
