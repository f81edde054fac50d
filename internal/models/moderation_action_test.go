package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveAt(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expires := issued.Add(time.Hour)

	temp := &ModerationAction{Kind: ActionBan, IssuedAt: issued, ExpiresAt: &expires}
	assert.True(t, temp.ActiveAt(issued))
	assert.True(t, temp.ActiveAt(expires.Add(-time.Second)))
	assert.False(t, temp.ActiveAt(expires))
	assert.False(t, temp.ActiveAt(expires.Add(time.Second)))

	perm := &ModerationAction{Kind: ActionBan, IssuedAt: issued, IsPermanent: true}
	assert.True(t, perm.ActiveAt(issued.AddDate(100, 0, 0)))
}

func TestDurationVocabularies(t *testing.T) {
	banKeys := make([]string, 0, len(BanDurations))
	for _, opt := range BanDurations {
		banKeys = append(banKeys, opt.Key)
	}
	assert.Equal(t, []string{"1h", "1d", "7d", "permanent"}, banKeys)

	muteKeys := make([]string, 0, len(MuteDurations))
	for _, opt := range MuteDurations {
		muteKeys = append(muteKeys, opt.Key)
	}
	assert.Equal(t, []string{"1h", "6h", "1d", "7d"}, muteKeys)

	// Mutes have no permanent option
	_, ok := FindDuration(ActionMute, "permanent")
	assert.False(t, ok)
}

func TestFindDuration(t *testing.T) {
	opt, ok := FindDuration(ActionBan, "7d")
	require.True(t, ok)
	assert.Equal(t, int64(604800), opt.Seconds)
	assert.False(t, opt.Permanent)

	opt, ok = FindDuration(ActionBan, "permanent")
	require.True(t, ok)
	assert.True(t, opt.Permanent)
	assert.Zero(t, opt.Seconds)

	_, ok = FindDuration(ActionBan, "2h")
	assert.False(t, ok)
}
