package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-moderator/internal/models"
)

func newTestVerification() (*VerificationService, *fakeAccountStore, *fakeAuditStore, *fakeProvider) {
	accounts := newFakeAccountStore()
	audit := &fakeAuditStore{}
	provider := newFakeProvider()
	svc := NewVerificationService(accounts, audit, provider, nil, 9)
	return svc, accounts, audit, provider
}

func TestBeginIssuesChallengeCode(t *testing.T) {
	svc, accounts, _, _ := newTestVerification()

	code, err := svc.Begin(context.Background(), 100, "alice")
	require.NoError(t, err)
	assert.Len(t, code, 9)
	for _, c := range code {
		assert.Contains(t, codeAlphabet, string(c))
	}

	account := accounts.accounts[100]
	require.NotNil(t, account)
	assert.Equal(t, models.VerificationAwaitingHandle, account.VerificationState)
	assert.Equal(t, code, account.PendingCode)
	assert.False(t, account.Verified)
}

func TestBeginRejectsVerifiedAccount(t *testing.T) {
	svc, accounts, _, _ := newTestVerification()

	robloxID := int64(42)
	accounts.accounts[100] = &models.Account{
		TelegramID: 100,
		Verified:   true,
		RobloxID:   &robloxID,
		Role:       models.RoleMember,
	}

	_, err := svc.Begin(context.Background(), 100, "alice")
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestBeginRejectsSanctionedAccount(t *testing.T) {
	svc, accounts, _, _ := newTestVerification()

	accounts.accounts[100] = &models.Account{TelegramID: 100, Role: models.RoleSanctioned}

	_, err := svc.Begin(context.Background(), 100, "alice")
	assert.ErrorIs(t, err, ErrSanctioned)
}

func TestBeginReplacesOpenSession(t *testing.T) {
	svc, accounts, _, _ := newTestVerification()

	first, err := svc.Begin(context.Background(), 100, "alice")
	require.NoError(t, err)
	second, err := svc.Begin(context.Background(), 100, "alice")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, second, accounts.accounts[100].PendingCode)
	assert.Equal(t, models.VerificationAwaitingHandle, accounts.accounts[100].VerificationState)
}

func TestSubmitHandleResolvesUsername(t *testing.T) {
	svc, accounts, _, provider := newTestVerification()
	provider.addUser("alice", 42, "no code yet")

	code, err := svc.Begin(context.Background(), 100, "alice")
	require.NoError(t, err)

	result, err := svc.SubmitHandle(context.Background(), 100, "@alice")
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.Info.ID)
	assert.Equal(t, code, result.Code)

	account := accounts.accounts[100]
	assert.Equal(t, models.VerificationAwaitingConfirmation, account.VerificationState)
	assert.Equal(t, int64(42), account.PendingRobloxID)
	assert.Equal(t, "alice", account.RobloxUsername)
}

func TestSubmitHandleResolvesProfileURL(t *testing.T) {
	svc, accounts, _, provider := newTestVerification()
	provider.addUser("alice", 42, "")

	_, err := svc.Begin(context.Background(), 100, "alice")
	require.NoError(t, err)

	_, err = svc.SubmitHandle(context.Background(), 100, "https://www.roblox.com/users/42/profile")
	require.NoError(t, err)
	assert.Equal(t, int64(42), accounts.accounts[100].PendingRobloxID)
}

func TestSubmitHandleUnknownAccountKeepsSession(t *testing.T) {
	svc, accounts, _, _ := newTestVerification()

	code, err := svc.Begin(context.Background(), 100, "alice")
	require.NoError(t, err)

	_, err = svc.SubmitHandle(context.Background(), 100, "nobody")
	assert.ErrorIs(t, err, ErrExternalAccountNotFound)

	// Lookup failure must not consume the session or the code
	account := accounts.accounts[100]
	assert.Equal(t, models.VerificationAwaitingHandle, account.VerificationState)
	assert.Equal(t, code, account.PendingCode)
}

func TestSubmitHandleProviderUnavailable(t *testing.T) {
	svc, _, _, provider := newTestVerification()

	_, err := svc.Begin(context.Background(), 100, "alice")
	require.NoError(t, err)

	provider.err = context.DeadlineExceeded
	_, err = svc.SubmitHandle(context.Background(), 100, "alice")
	assert.ErrorIs(t, err, ErrExternalServiceUnavailable)
}

func TestSubmitHandleClaimedByAnotherAccount(t *testing.T) {
	svc, accounts, _, provider := newTestVerification()
	provider.addUser("alice", 42, "")

	claimed := int64(42)
	accounts.accounts[200] = &models.Account{TelegramID: 200, Verified: true, RobloxID: &claimed}

	_, err := svc.Begin(context.Background(), 100, "alice")
	require.NoError(t, err)

	_, err = svc.SubmitHandle(context.Background(), 100, "alice")
	assert.ErrorIs(t, err, ErrAlreadyLinked)
}

func TestSubmitHandleWithoutSession(t *testing.T) {
	svc, accounts, _, provider := newTestVerification()
	provider.addUser("alice", 42, "")
	accounts.accounts[100] = &models.Account{TelegramID: 100, VerificationState: models.VerificationIdle}

	_, err := svc.SubmitHandle(context.Background(), 100, "alice")
	assert.ErrorIs(t, err, ErrStateMismatch)
}

func TestConfirmProofSuccess(t *testing.T) {
	svc, accounts, audit, provider := newTestVerification()
	provider.addUser("alice", 42, "")

	code, err := svc.Begin(context.Background(), 100, "alice")
	require.NoError(t, err)
	_, err = svc.SubmitHandle(context.Background(), 100, "alice")
	require.NoError(t, err)

	provider.profiles[42].Description = "my profile, code: " + code

	account, err := svc.ConfirmProof(context.Background(), 100)
	require.NoError(t, err)
	assert.True(t, account.Verified)
	require.NotNil(t, account.RobloxID)
	assert.Equal(t, int64(42), *account.RobloxID)
	assert.Equal(t, models.VerificationIdle, account.VerificationState)
	assert.Empty(t, account.PendingCode)

	stored := accounts.accounts[100]
	assert.True(t, stored.Verified)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditVerified, audit.entries[0].ActionKind)
	assert.Equal(t, int64(42), audit.entries[0].TargetID)
}

func TestConfirmProofCodeMissingIsRetryable(t *testing.T) {
	svc, accounts, _, provider := newTestVerification()
	provider.addUser("alice", 42, "nothing here")

	code, err := svc.Begin(context.Background(), 100, "alice")
	require.NoError(t, err)
	_, err = svc.SubmitHandle(context.Background(), 100, "alice")
	require.NoError(t, err)

	_, err = svc.ConfirmProof(context.Background(), 100)
	assert.ErrorIs(t, err, ErrCodeNotFound)
	assert.Equal(t, models.VerificationAwaitingConfirmation, accounts.accounts[100].VerificationState)

	// After the user edits the profile the same session succeeds
	provider.profiles[42].Description = code
	account, err := svc.ConfirmProof(context.Background(), 100)
	require.NoError(t, err)
	assert.True(t, account.Verified)
}

func TestConfirmProofProviderUnavailableKeepsSession(t *testing.T) {
	svc, accounts, _, provider := newTestVerification()
	provider.addUser("alice", 42, "")

	_, err := svc.Begin(context.Background(), 100, "alice")
	require.NoError(t, err)
	_, err = svc.SubmitHandle(context.Background(), 100, "alice")
	require.NoError(t, err)

	provider.err = context.DeadlineExceeded
	_, err = svc.ConfirmProof(context.Background(), 100)
	assert.ErrorIs(t, err, ErrExternalServiceUnavailable)
	assert.Equal(t, models.VerificationAwaitingConfirmation, accounts.accounts[100].VerificationState)
}

func TestRegenerateCodeInvalidatesOldCode(t *testing.T) {
	svc, _, _, provider := newTestVerification()
	provider.addUser("alice", 42, "")

	first, err := svc.Begin(context.Background(), 100, "alice")
	require.NoError(t, err)
	_, err = svc.SubmitHandle(context.Background(), 100, "alice")
	require.NoError(t, err)

	second, err := svc.RegenerateCode(context.Background(), 100)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// Old code in the profile no longer satisfies the proof
	provider.profiles[42].Description = first
	_, err = svc.ConfirmProof(context.Background(), 100)
	assert.ErrorIs(t, err, ErrCodeNotFound)

	provider.profiles[42].Description = second
	account, err := svc.ConfirmProof(context.Background(), 100)
	require.NoError(t, err)
	assert.True(t, account.Verified)
}

func TestRegenerateCodeRequiresOpenSession(t *testing.T) {
	svc, accounts, _, _ := newTestVerification()
	accounts.accounts[100] = &models.Account{TelegramID: 100, VerificationState: models.VerificationIdle}

	_, err := svc.RegenerateCode(context.Background(), 100)
	assert.ErrorIs(t, err, ErrStateMismatch)
}

func TestCancelClosesSession(t *testing.T) {
	svc, accounts, _, _ := newTestVerification()

	_, err := svc.Begin(context.Background(), 100, "alice")
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), 100))
	account := accounts.accounts[100]
	assert.Equal(t, models.VerificationIdle, account.VerificationState)
	assert.Empty(t, account.PendingCode)
	assert.Zero(t, account.PendingRobloxID)
}

func TestCancelWithoutSessionIsNoOp(t *testing.T) {
	svc, _, _, _ := newTestVerification()
	assert.NoError(t, svc.Cancel(context.Background(), 100))
}

func TestGeneratedCodesUseUniformAlphabet(t *testing.T) {
	svc, _, _, _ := newTestVerification()
	for i := 0; i < 20; i++ {
		code, err := svc.generateCode()
		require.NoError(t, err)
		assert.Len(t, code, 9)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, c), "unexpected character %q", c)
		}
	}
}
