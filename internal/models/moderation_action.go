package models

import "time"

// ActionKind distinguishes bans from mutes. Both share the same row shape
// and expiry semantics; only enforcement differs.
type ActionKind string

const (
	ActionBan  ActionKind = "ban"
	ActionMute ActionKind = "mute"
)

// ModerationAction is one ban or mute applied against a Roblox identity.
// Rows are append-only: an expired ban does not erase the record that it
// occurred, and "currently banned" is computed at read time.
type ModerationAction struct {
	ID       uint       `gorm:"primaryKey;autoIncrement"`
	Kind     ActionKind `gorm:"type:varchar(8);not null;index:idx_kind_target"`
	RobloxID int64      `gorm:"not null;index:idx_kind_target"`
	Reason   string     `gorm:"type:text"`
	IssuedBy int64      `gorm:"not null"`
	IssuedAt time.Time  `gorm:"not null"`

	// DurationSecs and ExpiresAt are nil iff the action is permanent.
	DurationSecs *int64
	ExpiresAt    *time.Time `gorm:"index"`
	IsPermanent  bool       `gorm:"default:false"`

	CreatedAt time.Time
}

// ActiveAt reports whether the action is in force at the given instant.
func (m *ModerationAction) ActiveAt(now time.Time) bool {
	if m.IsPermanent {
		return true
	}
	return m.ExpiresAt != nil && m.ExpiresAt.After(now)
}
