package handler

import (
	"fmt"
	"strings"

	"tg-moderator/internal/models"
)

// CallbackAction enumerates every inline-button action the bot emits.
type CallbackAction string

const (
	ActionBeginVerification CallbackAction = "verify_begin"
	ActionConfirmProof      CallbackAction = "verify_confirm"
	ActionRegenerateCode    CallbackAction = "verify_newcode"
	ActionAdminPanel        CallbackAction = "admin_panel"
	ActionPromptBan         CallbackAction = "admin_ban"
	ActionPromptMute        CallbackAction = "admin_mute"
	ActionPromptRole        CallbackAction = "admin_role"
	ActionShowAudit         CallbackAction = "admin_audit"
	ActionPickDuration      CallbackAction = "duration"
	ActionPickRole          CallbackAction = "role"
)

// CallbackCommand is the typed descriptor carried in inline-button callback
// data. It is encoded once when the keyboard is built and parsed once when
// the button is pressed; handlers switch on Action exhaustively instead of
// picking substrings apart.
type CallbackCommand struct {
	Action CallbackAction
	// Kind qualifies ActionPickDuration (ban or mute).
	Kind models.ActionKind
	// DurationKey is a key into the fixed duration vocabulary.
	DurationKey string
	// Role is the role to grant for ActionPickRole.
	Role models.Role
}

// Encode serializes the command for Telegram callback data (64-byte limit;
// free text such as ban reasons never rides along, it lives in the pending
// admin interaction instead).
func (c CallbackCommand) Encode() string {
	switch c.Action {
	case ActionPickDuration:
		return fmt.Sprintf("%s:%s:%s", c.Action, c.Kind, c.DurationKey)
	case ActionPickRole:
		return fmt.Sprintf("%s:%s", c.Action, c.Role)
	default:
		return string(c.Action)
	}
}

// ParseCallbackCommand decodes callback data into a typed command.
func ParseCallbackCommand(data string) (CallbackCommand, error) {
	parts := strings.Split(data, ":")
	action := CallbackAction(parts[0])

	switch action {
	case ActionBeginVerification, ActionConfirmProof, ActionRegenerateCode,
		ActionAdminPanel, ActionPromptBan, ActionPromptMute, ActionPromptRole, ActionShowAudit:
		if len(parts) != 1 {
			return CallbackCommand{}, fmt.Errorf("unexpected payload in callback data %q", data)
		}
		return CallbackCommand{Action: action}, nil

	case ActionPickDuration:
		if len(parts) != 3 {
			return CallbackCommand{}, fmt.Errorf("malformed duration callback data %q", data)
		}
		kind := models.ActionKind(parts[1])
		if kind != models.ActionBan && kind != models.ActionMute {
			return CallbackCommand{}, fmt.Errorf("unknown action kind in callback data %q", data)
		}
		if _, ok := models.FindDuration(kind, parts[2]); !ok {
			return CallbackCommand{}, fmt.Errorf("unknown duration key in callback data %q", data)
		}
		return CallbackCommand{Action: action, Kind: kind, DurationKey: parts[2]}, nil

	case ActionPickRole:
		if len(parts) != 2 {
			return CallbackCommand{}, fmt.Errorf("malformed role callback data %q", data)
		}
		role, ok := models.ParseRole(parts[1])
		if !ok {
			return CallbackCommand{}, fmt.Errorf("unknown role in callback data %q", data)
		}
		return CallbackCommand{Action: action, Role: role}, nil

	default:
		return CallbackCommand{}, fmt.Errorf("unknown callback action %q", parts[0])
	}
}
