package models

import "time"

// Audit action kinds. Stored as string codes.
const (
	AuditRoleAssigned = "role_assigned"
	AuditBanApplied   = "ban_applied"
	AuditMuteApplied  = "mute_applied"
	AuditVerified     = "account_verified"
)

// AuditLogEntry records one privileged action. Entries are append-only and
// never updated or deleted.
type AuditLogEntry struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	ActorID    int64     `gorm:"not null;index"`
	ActionKind string    `gorm:"type:varchar(32);not null;index"`
	TargetID   int64     `gorm:"index"`
	Details    string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"index"`
}
