package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"tg-moderator/internal/logger"
	"tg-moderator/internal/models"
	"tg-moderator/internal/roblox"
)

// codeAlphabet is the uniform alphabet challenge codes are drawn from.
// Collisions between outstanding codes are accepted as negligible.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// profileURLRegex extracts the numeric id from a Roblox profile link such as
// https://www.roblox.com/users/123456/profile
var profileURLRegex = regexp.MustCompile(`roblox\.com/users/(\d+)`)

// accountLocks serializes operations per account id. Two interleaved
// verification attempts for the same account would corrupt the pending code;
// different accounts proceed in parallel.
type accountLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[int64]*sync.Mutex)}
}

func (a *accountLocks) lock(telegramID int64) func() {
	a.mu.Lock()
	l, ok := a.locks[telegramID]
	if !ok {
		l = &sync.Mutex{}
		a.locks[telegramID] = l
	}
	a.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// VerificationService drives the per-account ownership-proof workflow:
// issue a challenge code, resolve the claimed handle, confirm the code is
// present in the external profile. State is persisted on the account row so
// open sessions survive restarts.
type VerificationService struct {
	accounts   AccountStore
	audit      AuditStore
	provider   IdentityProvider
	codeLength int
	locks      *accountLocks
	now        func() time.Time

	// moderation gates Begin for sanctioned accounts; optional in tests
	moderation *ModerationService
}

// NewVerificationService creates a verification service.
func NewVerificationService(accounts AccountStore, audit AuditStore, provider IdentityProvider, moderation *ModerationService, codeLength int) *VerificationService {
	if codeLength <= 0 {
		codeLength = 9
	}
	return &VerificationService{
		accounts:   accounts,
		audit:      audit,
		provider:   provider,
		moderation: moderation,
		codeLength: codeLength,
		locks:      newAccountLocks(),
		now:        time.Now,
	}
}

// generateCode draws a fixed-length code from the uniform alphabet.
func (s *VerificationService) generateCode() (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < s.codeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generating challenge code: %w", err)
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// Begin opens a verification session and returns the challenge code. A
// second Begin for an account with an open session replaces it rather than
// stacking. Verified accounts are rejected with ErrAlreadyVerified and
// sanctioned accounts with ErrSanctioned.
func (s *VerificationService) Begin(ctx context.Context, telegramID int64, displayName string) (string, error) {
	unlock := s.locks.lock(telegramID)
	defer unlock()

	account, err := s.accounts.GetOrCreate(telegramID, displayName)
	if err != nil {
		return "", fmt.Errorf("loading account %d: %w", telegramID, err)
	}

	if account.Verified {
		return "", ErrAlreadyVerified
	}
	if account.Role == models.RoleSanctioned {
		return "", ErrSanctioned
	}
	if s.moderation != nil && account.PendingRobloxID != 0 {
		banned, err := s.moderation.IsCurrentlyBanned(account.PendingRobloxID)
		if err == nil && banned {
			return "", ErrSanctioned
		}
	}

	code, err := s.generateCode()
	if err != nil {
		return "", err
	}

	err = s.accounts.UpdateVerification(telegramID, map[string]interface{}{
		"verification_state": models.VerificationAwaitingHandle,
		"pending_code":       code,
		"pending_roblox_id":  int64(0),
		"roblox_username":    "",
	})
	if err != nil {
		return "", fmt.Errorf("persisting verification session for %d: %w", telegramID, err)
	}

	logger.Infof("account %d: verification session opened", telegramID)
	return code, nil
}

// SubmitResult is the outcome of a successful handle submission: the
// resolved profile and the challenge code to display.
type SubmitResult struct {
	Info *roblox.UserInfo
	Code string
}

// SubmitHandle resolves the claimed Roblox handle and advances the session
// to the confirmation step. A failed lookup leaves the session (and the
// challenge code) untouched so the caller can retry with another handle.
func (s *VerificationService) SubmitHandle(ctx context.Context, telegramID int64, input string) (*SubmitResult, error) {
	unlock := s.locks.lock(telegramID)
	defer unlock()

	account, err := s.accounts.GetByTelegramID(telegramID)
	if err != nil {
		return nil, fmt.Errorf("loading account %d: %w", telegramID, err)
	}
	if account == nil {
		return nil, ErrNotFound
	}
	if account.VerificationState != models.VerificationAwaitingHandle {
		return nil, ErrStateMismatch
	}

	info, err := s.resolveHandle(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNotClaimed(info.ID, telegramID); err != nil {
		return nil, err
	}

	err = s.accounts.UpdateVerification(telegramID, map[string]interface{}{
		"verification_state": models.VerificationAwaitingConfirmation,
		"pending_roblox_id":  info.ID,
		"roblox_username":    info.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("persisting handle for %d: %w", telegramID, err)
	}

	logger.Infof("account %d: claimed roblox account %q (%d)", telegramID, info.Name, info.ID)
	return &SubmitResult{Info: info, Code: account.PendingCode}, nil
}

// resolveHandle normalizes the user input and resolves it to a Roblox
// profile. Plain handles are stripped of a leading "@"; profile URLs are
// resolved by the embedded numeric id instead.
func (s *VerificationService) resolveHandle(ctx context.Context, input string) (*roblox.UserInfo, error) {
	input = strings.TrimSpace(input)

	if matches := profileURLRegex.FindStringSubmatch(input); matches != nil {
		robloxID, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return nil, ErrExternalAccountNotFound
		}
		info, err := s.provider.GetUserInfo(ctx, robloxID)
		if err != nil {
			return nil, translateProviderError(err)
		}
		return info, nil
	}

	username := strings.TrimPrefix(input, "@")
	robloxID, err := s.provider.GetUserID(ctx, username)
	if err != nil {
		return nil, translateProviderError(err)
	}
	info, err := s.provider.GetUserInfo(ctx, robloxID)
	if err != nil {
		return nil, translateProviderError(err)
	}
	return info, nil
}

// ConfirmProof fetches the claimed profile and checks the challenge code is
// present in its description. Failure leaves the session open so the caller
// can edit the profile and retry; success links the identity, marks the
// account verified and closes the session.
func (s *VerificationService) ConfirmProof(ctx context.Context, telegramID int64) (*models.Account, error) {
	unlock := s.locks.lock(telegramID)
	defer unlock()

	account, err := s.accounts.GetByTelegramID(telegramID)
	if err != nil {
		return nil, fmt.Errorf("loading account %d: %w", telegramID, err)
	}
	if account == nil {
		return nil, ErrNotFound
	}
	if account.VerificationState != models.VerificationAwaitingConfirmation {
		return nil, ErrStateMismatch
	}

	info, err := s.provider.GetUserInfo(ctx, account.PendingRobloxID)
	if err != nil {
		return nil, translateProviderError(err)
	}

	if account.PendingCode == "" || !strings.Contains(info.Description, account.PendingCode) {
		logger.Infof("account %d: challenge code not present in profile %d", telegramID, account.PendingRobloxID)
		return nil, ErrCodeNotFound
	}

	if err := s.ensureNotClaimed(account.PendingRobloxID, telegramID); err != nil {
		return nil, err
	}

	robloxID := account.PendingRobloxID
	err = s.accounts.UpdateVerification(telegramID, map[string]interface{}{
		"verified":           true,
		"roblox_id":          robloxID,
		"verification_state": models.VerificationIdle,
		"pending_code":       "",
		"pending_roblox_id":  int64(0),
	})
	if err != nil {
		return nil, fmt.Errorf("persisting verification result for %d: %w", telegramID, err)
	}

	entry := &models.AuditLogEntry{
		ActorID:    telegramID,
		ActionKind: models.AuditVerified,
		TargetID:   robloxID,
		Details:    fmt.Sprintf("roblox_username=%s", account.RobloxUsername),
	}
	if err := s.audit.Append(entry); err != nil {
		logger.Warningf("account %d: failed to append verification audit entry: %v", telegramID, err)
	}

	account.Verified = true
	account.RobloxID = &robloxID
	account.VerificationState = models.VerificationIdle
	account.PendingCode = ""
	account.PendingRobloxID = 0

	logger.Infof("account %d: verified as roblox %d", telegramID, robloxID)
	return account, nil
}

// RegenerateCode issues a fresh challenge code for an open session, keeping
// the state unchanged. The previous code no longer matches.
func (s *VerificationService) RegenerateCode(ctx context.Context, telegramID int64) (string, error) {
	unlock := s.locks.lock(telegramID)
	defer unlock()

	account, err := s.accounts.GetByTelegramID(telegramID)
	if err != nil {
		return "", fmt.Errorf("loading account %d: %w", telegramID, err)
	}
	if account == nil {
		return "", ErrNotFound
	}
	if account.VerificationState != models.VerificationAwaitingHandle &&
		account.VerificationState != models.VerificationAwaitingConfirmation {
		return "", ErrStateMismatch
	}

	code, err := s.generateCode()
	if err != nil {
		return "", err
	}

	err = s.accounts.UpdateVerification(telegramID, map[string]interface{}{
		"pending_code": code,
	})
	if err != nil {
		return "", fmt.Errorf("persisting regenerated code for %d: %w", telegramID, err)
	}
	return code, nil
}

// Cancel closes any open session and discards the pending code. Always
// legal; cancelling an idle session is a no-op.
func (s *VerificationService) Cancel(ctx context.Context, telegramID int64) error {
	unlock := s.locks.lock(telegramID)
	defer unlock()

	account, err := s.accounts.GetByTelegramID(telegramID)
	if err != nil {
		return fmt.Errorf("loading account %d: %w", telegramID, err)
	}
	if account == nil || account.VerificationState == models.VerificationIdle {
		return nil
	}

	err = s.accounts.UpdateVerification(telegramID, map[string]interface{}{
		"verification_state": models.VerificationIdle,
		"pending_code":       "",
		"pending_roblox_id":  int64(0),
	})
	if err != nil {
		return fmt.Errorf("cancelling session for %d: %w", telegramID, err)
	}
	logger.Infof("account %d: verification session cancelled", telegramID)
	return nil
}

// ensureNotClaimed rejects an external id already linked to another account.
func (s *VerificationService) ensureNotClaimed(robloxID, telegramID int64) error {
	other, err := s.accounts.GetByRobloxID(robloxID)
	if err != nil {
		return fmt.Errorf("checking existing link for roblox %d: %w", robloxID, err)
	}
	if other != nil && other.TelegramID != telegramID {
		return ErrAlreadyLinked
	}
	return nil
}

func translateProviderError(err error) error {
	switch {
	case errors.Is(err, roblox.ErrNotFound):
		return ErrExternalAccountNotFound
	case errors.Is(err, roblox.ErrUnavailable):
		return ErrExternalServiceUnavailable
	default:
		return fmt.Errorf("%w: %v", ErrExternalServiceUnavailable, err)
	}
}
