package service

import (
	"fmt"

	"tg-moderator/internal/logger"
	"tg-moderator/internal/models"
	"tg-moderator/internal/storage"
)

// GroupService tracks the chats registered for moderation and broadcast.
type GroupService struct {
	repo    *storage.GroupRepository
	manager *models.GroupManager
}

// NewGroupService creates a group service backed by the repository and the
// in-memory cache.
func NewGroupService(repo *storage.GroupRepository, manager *models.GroupManager) *GroupService {
	return &GroupService{repo: repo, manager: manager}
}

// Register adds (or refreshes) a group registration.
func (s *GroupService) Register(groupID int64, title string, registeredBy int64) error {
	group := &models.Group{
		GroupID:      groupID,
		Title:        title,
		RegisteredBy: registeredBy,
	}
	if err := s.repo.CreateOrUpdate(group); err != nil {
		return fmt.Errorf("registering group %d: %w", groupID, err)
	}
	s.manager.Add(group)
	logger.Infof("group registered: %s", group)
	return nil
}

// IsRegistered reports whether a chat is under moderation.
func (s *GroupService) IsRegistered(groupID int64) bool {
	return s.manager.Get(groupID) != nil
}

// All returns every registered group.
func (s *GroupService) All() []*models.Group {
	return s.manager.All()
}

// Unregister drops a group registration.
func (s *GroupService) Unregister(groupID int64) error {
	if err := s.repo.Delete(groupID); err != nil {
		return fmt.Errorf("unregistering group %d: %w", groupID, err)
	}
	s.manager.Remove(groupID)
	return nil
}
