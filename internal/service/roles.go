package service

import (
	"fmt"

	"tg-moderator/internal/logger"
	"tg-moderator/internal/models"
)

// RoleService applies role changes through the authorization policy and
// records every successful change in the audit log atomically with the
// role update.
type RoleService struct {
	accounts AccountStore
	audit    AuditStore
}

// NewRoleService creates a role service.
func NewRoleService(accounts AccountStore, audit AuditStore) *RoleService {
	return &RoleService{accounts: accounts, audit: audit}
}

// Assign grants newRole to the target account. The policy check happens
// before any store access; on success the previous role is returned.
func (s *RoleService) Assign(actor *models.Account, targetTelegramID int64, newRole models.Role) (models.Role, error) {
	if actor == nil || !actor.Role.CanAssign(newRole) {
		return "", ErrPermissionDenied
	}

	target, err := s.accounts.GetByTelegramID(targetTelegramID)
	if err != nil {
		return "", fmt.Errorf("loading target account %d: %w", targetTelegramID, err)
	}
	if target == nil {
		return "", ErrNotFound
	}

	previous := target.Role
	entry := &models.AuditLogEntry{
		ActorID:    actor.TelegramID,
		ActionKind: models.AuditRoleAssigned,
		TargetID:   targetTelegramID,
		Details:    fmt.Sprintf("from=%s to=%s", previous, newRole),
	}

	if err := s.accounts.AssignRole(targetTelegramID, newRole, entry); err != nil {
		return "", fmt.Errorf("assigning role %s to %d: %w", newRole, targetTelegramID, err)
	}

	logger.Infof("role of account %d changed %s -> %s by %d", targetTelegramID, previous, newRole, actor.TelegramID)
	return previous, nil
}

// ListByRole returns accounts holding a role. Administrators only.
func (s *RoleService) ListByRole(actor *models.Account, role models.Role) ([]*models.Account, error) {
	if actor == nil || !actor.Role.CanViewRoles() {
		return nil, ErrPermissionDenied
	}
	return s.accounts.ListByRole(role)
}

// RecentAudit returns the newest audit entries. Administrators only.
func (s *RoleService) RecentAudit(actor *models.Account, limit int) ([]*models.AuditLogEntry, error) {
	if actor == nil || !actor.Role.IsAdministrator() {
		return nil, ErrPermissionDenied
	}
	return s.audit.Recent(limit)
}
