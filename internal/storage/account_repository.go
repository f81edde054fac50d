package storage

import (
	"fmt"
	"time"

	"tg-moderator/internal/models"

	"gorm.io/gorm"
)

// AccountRepository handles database operations for Account
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// MigrateTable ensures the Account table exists
func (r *AccountRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.Account{})
}

// Create inserts a new Account
func (r *AccountRepository) Create(account *models.Account) error {
	return r.db.Create(account).Error
}

// GetByTelegramID retrieves an account by Telegram id, nil when unknown
func (r *AccountRepository) GetByTelegramID(telegramID int64) (*models.Account, error) {
	var account models.Account
	result := r.db.Where("telegram_id = ?", telegramID).First(&account)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &account, nil
}

// GetByRobloxID retrieves the account linked to a Roblox id, nil when none
func (r *AccountRepository) GetByRobloxID(robloxID int64) (*models.Account, error) {
	var account models.Account
	result := r.db.Where("roblox_id = ?", robloxID).First(&account)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &account, nil
}

// GetOrCreate returns the account for a Telegram id, lazily creating the row
// on first contact.
func (r *AccountRepository) GetOrCreate(telegramID int64, displayName string) (*models.Account, error) {
	account, err := r.GetByTelegramID(telegramID)
	if err != nil {
		return nil, err
	}
	if account != nil {
		if displayName != "" && account.DisplayName != displayName {
			// Display name is informational only; refresh it opportunistically
			r.db.Model(account).Update("display_name", displayName)
			account.DisplayName = displayName
		}
		return account, nil
	}

	account = &models.Account{
		TelegramID:        telegramID,
		DisplayName:       displayName,
		Role:              models.RoleMember,
		VerificationState: models.VerificationIdle,
	}
	if err := r.db.Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

// UpdateVerification writes only the verification-related columns so a
// concurrent role change on the same row is never overwritten.
func (r *AccountRepository) UpdateVerification(telegramID int64, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	result := r.db.Model(&models.Account{}).
		Where("telegram_id = ?", telegramID).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByRole returns all accounts holding the given role
func (r *AccountRepository) ListByRole(role models.Role) ([]*models.Account, error) {
	var accounts []*models.Account
	result := r.db.Where("role = ?", role).Order("telegram_id").Find(&accounts)
	return accounts, result.Error
}

// AssignRole updates the account's role and appends the audit entry in one
// transaction. A crash between the two must never leave a role change
// unaudited.
func (r *AccountRepository) AssignRole(telegramID int64, newRole models.Role, entry *models.AuditLogEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Account{}).
			Where("telegram_id = ?", telegramID).
			Updates(map[string]interface{}{"role": newRole, "updated_at": time.Now()})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to append audit entry: %w", err)
		}
		return nil
	})
}
