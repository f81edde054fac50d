package models

import (
	"fmt"
	"sync"
	"time"
)

// Group is a chat registered for moderation and "newly verified" broadcasts.
// No moderation state lives here.
type Group struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	GroupID      int64  `gorm:"uniqueIndex;not null"`
	Title        string `gorm:"type:varchar(255)"`
	RegisteredBy int64  `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (g *Group) String() string {
	return fmt.Sprintf("%s (%d)", g.Title, g.GroupID)
}

// GroupManager is an in-memory cache of registered groups, loaded from the
// database on startup and kept current as groups register.
type GroupManager struct {
	groups map[int64]*Group
	mu     sync.RWMutex
}

func NewGroupManager() *GroupManager {
	return &GroupManager{
		groups: make(map[int64]*Group),
	}
}

func (g *GroupManager) Get(groupID int64) *Group {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.groups[groupID]
}

func (g *GroupManager) Add(group *Group) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.groups[group.GroupID] = group
}

func (g *GroupManager) Remove(groupID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.groups, groupID)
}

// All returns a snapshot of every registered group.
func (g *GroupManager) All() []*Group {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Group, 0, len(g.groups))
	for _, group := range g.groups {
		out = append(out, group)
	}
	return out
}
