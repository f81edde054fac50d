package service

import (
	"context"
	"time"

	"tg-moderator/internal/models"
	"tg-moderator/internal/roblox"
)

// AccountStore is the persistence surface the services need for accounts.
// Implemented by storage.AccountRepository; tests substitute fakes.
type AccountStore interface {
	GetByTelegramID(telegramID int64) (*models.Account, error)
	GetByRobloxID(robloxID int64) (*models.Account, error)
	GetOrCreate(telegramID int64, displayName string) (*models.Account, error)
	UpdateVerification(telegramID int64, fields map[string]interface{}) error
	ListByRole(role models.Role) ([]*models.Account, error)
	AssignRole(telegramID int64, newRole models.Role, entry *models.AuditLogEntry) error
}

// ModerationStore persists moderation actions.
type ModerationStore interface {
	Create(action *models.ModerationAction) error
	ActiveExists(kind models.ActionKind, robloxID int64, now time.Time) (bool, error)
	HistoryFor(kind models.ActionKind, robloxID int64) ([]*models.ModerationAction, error)
}

// AuditStore persists audit entries.
type AuditStore interface {
	Append(entry *models.AuditLogEntry) error
	Recent(limit int) ([]*models.AuditLogEntry, error)
}

// IdentityProvider resolves Roblox handles and fetches public profiles.
type IdentityProvider interface {
	GetUserID(ctx context.Context, username string) (int64, error)
	GetUserInfo(ctx context.Context, robloxID int64) (*roblox.UserInfo, error)
}
