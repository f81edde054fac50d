package handler

import (
	"sync"

	"tg-moderator/internal/models"
)

// pendingStage marks what input the bot is waiting for from an admin.
type pendingStage int

const (
	stageAwaitBanTarget pendingStage = iota + 1
	stageAwaitMuteTarget
	stageAwaitRoleTarget
	stageAwaitDuration
	stageAwaitRolePick
)

// pendingInteraction is the transient, per-admin state of a multi-message
// admin flow (pick target, then pick duration or role). Free text such as
// the ban reason lives here, never in callback data.
type pendingInteraction struct {
	Stage            pendingStage
	Kind             models.ActionKind
	RobloxID         int64
	Reason           string
	TargetTelegramID int64
}

var (
	pendingMu    sync.Mutex
	pendingAdmin = make(map[int64]*pendingInteraction)
)

func setPending(adminID int64, p *pendingInteraction) {
	pendingMu.Lock()
	defer pendingMu.Unlock()
	pendingAdmin[adminID] = p
}

func getPending(adminID int64) *pendingInteraction {
	pendingMu.Lock()
	defer pendingMu.Unlock()
	return pendingAdmin[adminID]
}

func clearPending(adminID int64) {
	pendingMu.Lock()
	defer pendingMu.Unlock()
	delete(pendingAdmin, adminID)
}
