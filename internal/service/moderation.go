package service

import (
	"fmt"
	"time"

	"tg-moderator/internal/logger"
	"tg-moderator/internal/models"
)

// ModerationService creates and evaluates time-bound bans and mutes.
// Actions accumulate; applying a new ban never retracts or merges earlier
// ones, and expiry is evaluated at read time without any sweeper.
type ModerationService struct {
	store ModerationStore
	audit AuditStore
	now   func() time.Time
}

// NewModerationService creates a moderation service.
func NewModerationService(store ModerationStore, audit AuditStore) *ModerationService {
	return &ModerationService{
		store: store,
		audit: audit,
		now:   time.Now,
	}
}

// ApplyBan records a ban against a Roblox identity. Administrator only.
func (s *ModerationService) ApplyBan(actor *models.Account, robloxID int64, reason string, duration models.DurationOption) (*models.ModerationAction, error) {
	return s.apply(models.ActionBan, actor, robloxID, reason, duration)
}

// ApplyMute records a mute against a Roblox identity. Administrator only.
func (s *ModerationService) ApplyMute(actor *models.Account, robloxID int64, reason string, duration models.DurationOption) (*models.ModerationAction, error) {
	return s.apply(models.ActionMute, actor, robloxID, reason, duration)
}

func (s *ModerationService) apply(kind models.ActionKind, actor *models.Account, robloxID int64, reason string, duration models.DurationOption) (*models.ModerationAction, error) {
	if actor == nil || !actor.Role.IsAdministrator() {
		return nil, ErrPermissionDenied
	}

	issuedAt := s.now()
	action := &models.ModerationAction{
		Kind:     kind,
		RobloxID: robloxID,
		Reason:   reason,
		IssuedBy: actor.TelegramID,
		IssuedAt: issuedAt,
	}
	if duration.Permanent {
		action.IsPermanent = true
	} else {
		secs := duration.Seconds
		expires := issuedAt.Add(time.Duration(secs) * time.Second)
		action.DurationSecs = &secs
		action.ExpiresAt = &expires
	}

	if err := s.store.Create(action); err != nil {
		return nil, fmt.Errorf("recording %s for roblox %d: %w", kind, robloxID, err)
	}

	auditKind := models.AuditBanApplied
	if kind == models.ActionMute {
		auditKind = models.AuditMuteApplied
	}
	entry := &models.AuditLogEntry{
		ActorID:    actor.TelegramID,
		ActionKind: auditKind,
		TargetID:   robloxID,
		Details:    fmt.Sprintf("reason=%s duration=%s", reason, duration.Key),
	}
	if err := s.audit.Append(entry); err != nil {
		logger.Warningf("failed to append %s audit entry for roblox %d: %v", kind, robloxID, err)
	}

	logger.Infof("%s applied to roblox %d by %d (%s)", kind, robloxID, actor.TelegramID, duration.Key)
	return action, nil
}

// IsCurrentlyBanned reports whether any ban is in force for the target now.
func (s *ModerationService) IsCurrentlyBanned(robloxID int64) (bool, error) {
	return s.store.ActiveExists(models.ActionBan, robloxID, s.now())
}

// IsCurrentlyMuted reports whether any mute is in force for the target now.
func (s *ModerationService) IsCurrentlyMuted(robloxID int64) (bool, error) {
	return s.store.ActiveExists(models.ActionMute, robloxID, s.now())
}

// History returns every action of a kind ever applied to the target.
func (s *ModerationService) History(kind models.ActionKind, robloxID int64) ([]*models.ModerationAction, error) {
	return s.store.HistoryFor(kind, robloxID)
}
