package storage

import (
	"time"

	"tg-moderator/internal/models"

	"gorm.io/gorm"
)

// ModerationRepository handles database operations for ModerationAction
type ModerationRepository struct {
	db *gorm.DB
}

// NewModerationRepository creates a new ModerationRepository
func NewModerationRepository(db *gorm.DB) *ModerationRepository {
	return &ModerationRepository{db: db}
}

// MigrateTable ensures the ModerationAction table exists
func (r *ModerationRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.ModerationAction{})
}

// Create inserts a new ModerationAction. Rows are never updated afterwards.
func (r *ModerationRepository) Create(action *models.ModerationAction) error {
	return r.db.Create(action).Error
}

// ActiveExists reports whether any action of the kind is in force for the
// target at the given instant. Expired rows are left in place; relevance is
// purely a read-time computation.
func (r *ModerationRepository) ActiveExists(kind models.ActionKind, robloxID int64, now time.Time) (bool, error) {
	var count int64
	result := r.db.Model(&models.ModerationAction{}).
		Where("kind = ? AND roblox_id = ? AND (is_permanent = ? OR expires_at > ?)", kind, robloxID, true, now).
		Count(&count)
	return count > 0, result.Error
}

// HistoryFor returns every action ever applied against a target, newest first
func (r *ModerationRepository) HistoryFor(kind models.ActionKind, robloxID int64) ([]*models.ModerationAction, error) {
	var actions []*models.ModerationAction
	result := r.db.
		Where("kind = ? AND roblox_id = ?", kind, robloxID).
		Order("id DESC").
		Find(&actions)
	return actions, result.Error
}
