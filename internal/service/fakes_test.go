package service

import (
	"context"
	"fmt"
	"time"

	"tg-moderator/internal/models"
	"tg-moderator/internal/roblox"
)

// fakeAccountStore keeps accounts in a map and applies verification updates
// the way the repository does, touching only the named columns.
type fakeAccountStore struct {
	accounts map[int64]*models.Account
	// auditTrail collects entries passed to AssignRole, which the real
	// repository writes in the same transaction as the role update.
	auditTrail []*models.AuditLogEntry
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: make(map[int64]*models.Account)}
}

func (f *fakeAccountStore) GetByTelegramID(telegramID int64) (*models.Account, error) {
	account, ok := f.accounts[telegramID]
	if !ok {
		return nil, nil
	}
	return account, nil
}

func (f *fakeAccountStore) GetByRobloxID(robloxID int64) (*models.Account, error) {
	for _, account := range f.accounts {
		if account.RobloxID != nil && *account.RobloxID == robloxID {
			return account, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountStore) GetOrCreate(telegramID int64, displayName string) (*models.Account, error) {
	if account, ok := f.accounts[telegramID]; ok {
		return account, nil
	}
	account := &models.Account{
		TelegramID:        telegramID,
		DisplayName:       displayName,
		Role:              models.RoleMember,
		VerificationState: models.VerificationIdle,
		CreatedAt:         time.Now(),
	}
	f.accounts[telegramID] = account
	return account, nil
}

func (f *fakeAccountStore) UpdateVerification(telegramID int64, fields map[string]interface{}) error {
	account, ok := f.accounts[telegramID]
	if !ok {
		return fmt.Errorf("account %d not found", telegramID)
	}
	for column, value := range fields {
		switch column {
		case "verification_state":
			account.VerificationState = value.(models.VerificationState)
		case "pending_code":
			account.PendingCode = value.(string)
		case "pending_roblox_id":
			account.PendingRobloxID = value.(int64)
		case "roblox_username":
			account.RobloxUsername = value.(string)
		case "verified":
			account.Verified = value.(bool)
		case "roblox_id":
			id := value.(int64)
			account.RobloxID = &id
		default:
			return fmt.Errorf("unexpected column %q", column)
		}
	}
	return nil
}

func (f *fakeAccountStore) ListByRole(role models.Role) ([]*models.Account, error) {
	var out []*models.Account
	for _, account := range f.accounts {
		if account.Role == role {
			out = append(out, account)
		}
	}
	return out, nil
}

func (f *fakeAccountStore) AssignRole(telegramID int64, newRole models.Role, entry *models.AuditLogEntry) error {
	account, ok := f.accounts[telegramID]
	if !ok {
		return fmt.Errorf("account %d not found", telegramID)
	}
	account.Role = newRole
	f.auditTrail = append(f.auditTrail, entry)
	return nil
}

// fakeAuditStore collects appended entries in order.
type fakeAuditStore struct {
	entries []*models.AuditLogEntry
}

func (f *fakeAuditStore) Append(entry *models.AuditLogEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditStore) Recent(limit int) ([]*models.AuditLogEntry, error) {
	var out []*models.AuditLogEntry
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.entries[i])
	}
	return out, nil
}

// fakeProvider resolves handles from in-memory maps. Setting err makes every
// lookup fail with it.
type fakeProvider struct {
	ids      map[string]int64
	profiles map[int64]*roblox.UserInfo
	err      error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		ids:      make(map[string]int64),
		profiles: make(map[int64]*roblox.UserInfo),
	}
}

func (f *fakeProvider) addUser(username string, id int64, description string) {
	f.ids[username] = id
	f.profiles[id] = &roblox.UserInfo{ID: id, Name: username, Description: description}
}

func (f *fakeProvider) GetUserID(ctx context.Context, username string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	id, ok := f.ids[username]
	if !ok {
		return 0, roblox.ErrNotFound
	}
	return id, nil
}

func (f *fakeProvider) GetUserInfo(ctx context.Context, robloxID int64) (*roblox.UserInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	info, ok := f.profiles[robloxID]
	if !ok {
		return nil, roblox.ErrNotFound
	}
	return info, nil
}

// fakeModerationStore keeps actions in a slice and evaluates activity with
// the model's own expiry rule.
type fakeModerationStore struct {
	actions []*models.ModerationAction
}

func (f *fakeModerationStore) Create(action *models.ModerationAction) error {
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeModerationStore) ActiveExists(kind models.ActionKind, robloxID int64, now time.Time) (bool, error) {
	for _, action := range f.actions {
		if action.Kind == kind && action.RobloxID == robloxID && action.ActiveAt(now) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeModerationStore) HistoryFor(kind models.ActionKind, robloxID int64) ([]*models.ModerationAction, error) {
	var out []*models.ModerationAction
	for _, action := range f.actions {
		if action.Kind == kind && action.RobloxID == robloxID {
			out = append(out, action)
		}
	}
	return out, nil
}
