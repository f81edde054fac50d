package models

import "time"

// VerificationState is the persisted step of an account's verification flow.
// Persisting it on the account row keeps in-flight sessions alive across
// process restarts.
type VerificationState string

const (
	VerificationIdle                 VerificationState = "idle"
	VerificationAwaitingHandle       VerificationState = "awaiting_handle"
	VerificationAwaitingConfirmation VerificationState = "awaiting_confirmation"
)

// Account is one Telegram identity tracked by the bot. RobloxID is set only
// after ownership proof succeeds; at most one account may claim a Roblox id.
type Account struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	TelegramID  int64  `gorm:"uniqueIndex;not null"`
	DisplayName string `gorm:"type:varchar(128)"`

	RobloxID       *int64 `gorm:"uniqueIndex"`
	RobloxUsername string `gorm:"type:varchar(64)"`
	Verified       bool   `gorm:"default:false"`

	VerificationState VerificationState `gorm:"type:varchar(32);default:'idle'"`
	// PendingCode is non-empty only while a verification session is open.
	PendingCode string `gorm:"type:varchar(32)"`
	// PendingRobloxID is the tentative id resolved from the claimed handle,
	// confirmed only when the proof check passes.
	PendingRobloxID int64 `gorm:"default:0"`

	Role Role `gorm:"type:varchar(16);default:'member';index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasOpenSession reports whether a verification session is in progress.
func (a *Account) HasOpenSession() bool {
	return a.VerificationState != VerificationIdle
}
