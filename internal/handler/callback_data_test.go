package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-moderator/internal/models"
)

func TestCallbackCommandRoundTrip(t *testing.T) {
	commands := []CallbackCommand{
		{Action: ActionBeginVerification},
		{Action: ActionConfirmProof},
		{Action: ActionRegenerateCode},
		{Action: ActionAdminPanel},
		{Action: ActionPromptBan},
		{Action: ActionPromptMute},
		{Action: ActionPromptRole},
		{Action: ActionShowAudit},
		{Action: ActionPickDuration, Kind: models.ActionBan, DurationKey: "1h"},
		{Action: ActionPickDuration, Kind: models.ActionBan, DurationKey: "permanent"},
		{Action: ActionPickDuration, Kind: models.ActionMute, DurationKey: "6h"},
		{Action: ActionPickRole, Role: models.RoleModerator},
		{Action: ActionPickRole, Role: models.RoleSanctioned},
	}
	for _, cmd := range commands {
		parsed, err := ParseCallbackCommand(cmd.Encode())
		require.NoError(t, err, "round trip %q", cmd.Encode())
		assert.Equal(t, cmd, parsed)
	}
}

func TestEncodeStaysWithinCallbackDataLimit(t *testing.T) {
	longest := CallbackCommand{Action: ActionPickDuration, Kind: models.ActionMute, DurationKey: "permanent"}
	assert.LessOrEqual(t, len(longest.Encode()), 64)
}

func TestParseRejectsMalformedData(t *testing.T) {
	cases := []string{
		"",
		"unknown_action",
		"verify_begin:extra",
		"duration",
		"duration:ban",
		"duration:kick:1h",
		"duration:ban:2h",
		"duration:mute:permanent",
		"role",
		"role:superuser",
		"role:admin:extra",
	}
	for _, data := range cases {
		_, err := ParseCallbackCommand(data)
		assert.Error(t, err, "data %q", data)
	}
}
