package storage

import (
	"tg-moderator/internal/models"

	"gorm.io/gorm"
)

// AuditRepository handles database operations for AuditLogEntry
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// MigrateTable ensures the AuditLogEntry table exists
func (r *AuditRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.AuditLogEntry{})
}

// Append inserts a new audit entry. Entries are immutable once written.
func (r *AuditRepository) Append(entry *models.AuditLogEntry) error {
	return r.db.Create(entry).Error
}

// Recent returns the newest entries, most recent first
func (r *AuditRepository) Recent(limit int) ([]*models.AuditLogEntry, error) {
	var entries []*models.AuditLogEntry
	result := r.db.Order("id DESC").Limit(limit).Find(&entries)
	return entries, result.Error
}
