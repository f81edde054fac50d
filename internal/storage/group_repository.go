package storage

import (
	"log"
	"time"

	"tg-moderator/internal/models"

	"gorm.io/gorm"
)

// GroupRepository handles database operations for Group
type GroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// MigrateTable ensures the Group table exists
func (r *GroupRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.Group{})
}

// Get retrieves a group by chat id, nil when not registered
func (r *GroupRepository) Get(groupID int64) (*models.Group, error) {
	var group models.Group
	result := r.db.Where("group_id = ?", groupID).First(&group)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &group, nil
}

// CreateOrUpdate registers a group or refreshes its title
func (r *GroupRepository) CreateOrUpdate(group *models.Group) error {
	var existing models.Group
	result := r.db.Where("group_id = ?", group.GroupID).First(&existing)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			group.CreatedAt = time.Now()
			group.UpdatedAt = time.Now()
			return r.db.Create(group).Error
		}
		return result.Error
	}

	group.ID = existing.ID
	group.CreatedAt = existing.CreatedAt
	group.UpdatedAt = time.Now()

	return r.db.Save(group).Error
}

// GetAll retrieves every registered group
func (r *GroupRepository) GetAll() ([]*models.Group, error) {
	var groups []*models.Group
	result := r.db.Find(&groups)
	if result.Error != nil {
		return nil, result.Error
	}
	return groups, nil
}

// Delete removes a group registration
func (r *GroupRepository) Delete(groupID int64) error {
	return r.db.Where("group_id = ?", groupID).Delete(&models.Group{}).Error
}

// InitializeGroups loads all registered groups into the cache
func InitializeGroups(manager *models.GroupManager) error {
	if DB == nil {
		log.Printf("Database is not initialized, skipping group initialization")
		return nil
	}

	repo := NewGroupRepository(DB)
	groups, err := repo.GetAll()
	if err != nil {
		return err
	}

	for _, group := range groups {
		manager.Add(group)
	}

	log.Printf("Loaded %d groups from database into cache", len(groups))
	return nil
}
