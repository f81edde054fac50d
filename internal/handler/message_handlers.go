package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-moderator/internal/logger"
	"tg-moderator/internal/models"
	"tg-moderator/internal/service"
)

// handleIncomingMessage processes non-command messages in chats
func handleIncomingMessage(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	if message.From == nil || message.From.IsBot {
		return nil
	}

	if message.Chat.Type == "private" {
		return handlePrivateMessage(ctx, bot, message)
	}
	return handleGroupMessage(ctx, bot, message)
}

// handlePrivateMessage routes a private text either into an open
// verification session or into a pending admin flow.
func handlePrivateMessage(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	if message.Text == "" {
		return nil
	}

	// Admin flows take precedence: verification is driven by buttons once a
	// session passes the handle step, admin prompts always expect text.
	if pending := getPending(message.From.ID); pending != nil {
		return handleAdminInput(ctx, bot, message, pending)
	}

	account, err := service.Accounts.GetByTelegramID(message.From.ID)
	if err != nil {
		logger.Errorf("private message: loading account %d: %v", message.From.ID, err)
		return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("error_generic"))
	}
	if account != nil && account.VerificationState == models.VerificationAwaitingHandle {
		return handleHandleSubmission(ctx, bot, message)
	}

	return nil
}

// handleHandleSubmission treats the text as the claimed Roblox handle.
func handleHandleSubmission(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	result, err := service.Verification.SubmitHandle(ctx.Context(), message.From.ID, message.Text)
	if err != nil {
		// Lookup failures keep the session open; the user just retries
		return sendText(ctx.Context(), bot, message.Chat.ID, userFacingError(err))
	}

	keyboard := [][]telego.InlineKeyboardButton{
		{{Text: models.GetMessage("btn_code_added"), CallbackData: CallbackCommand{Action: ActionConfirmProof}.Encode()}},
		{{Text: models.GetMessage("btn_new_code"), CallbackData: CallbackCommand{Action: ActionRegenerateCode}.Encode()}},
	}
	text := fmt.Sprintf(models.GetMessage("code_issued"), result.Code)
	return sendWithKeyboard(ctx.Context(), bot, message.Chat.ID, text, keyboard)
}

// handleAdminInput consumes the text an admin was prompted for.
func handleAdminInput(ctx *th.Context, bot *telego.Bot, message telego.Message, pending *pendingInteraction) error {
	account, err := actorAccount(message.From)
	if err != nil {
		return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("error_generic"))
	}

	switch pending.Stage {
	case stageAwaitBanTarget, stageAwaitMuteTarget:
		if !account.Role.IsAdministrator() {
			clearPending(message.From.ID)
			return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("permission_denied"))
		}

		parts := strings.SplitN(message.Text, " ", 2)
		if len(parts) < 2 {
			return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("bad_target_format"))
		}
		robloxID, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("bad_target_format"))
		}

		kind := models.ActionBan
		header := models.GetMessage("btn_ban")
		if pending.Stage == stageAwaitMuteTarget {
			kind = models.ActionMute
			header = models.GetMessage("btn_mute")
		}
		setPending(message.From.ID, &pendingInteraction{
			Stage:    stageAwaitDuration,
			Kind:     kind,
			RobloxID: robloxID,
			Reason:   parts[1],
		})

		var keyboard [][]telego.InlineKeyboardButton
		for _, opt := range models.DurationsFor(kind) {
			keyboard = append(keyboard, []telego.InlineKeyboardButton{{
				Text:         opt.Label,
				CallbackData: CallbackCommand{Action: ActionPickDuration, Kind: kind, DurationKey: opt.Key}.Encode(),
			}})
		}
		text := fmt.Sprintf(models.GetMessage("pick_duration"), header, robloxID, parts[1])
		return sendWithKeyboard(ctx.Context(), bot, message.Chat.ID, text, keyboard)

	case stageAwaitRoleTarget:
		targetID, err := strconv.ParseInt(strings.TrimSpace(message.Text), 10, 64)
		if err != nil {
			return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("bad_account_id"))
		}
		target, err := service.Accounts.GetByTelegramID(targetID)
		if err != nil {
			logger.Errorf("role target lookup %d: %v", targetID, err)
			return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("error_generic"))
		}
		if target == nil {
			return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("account_not_found"))
		}

		assignable := account.Role.AssignableRoles()
		if len(assignable) == 0 {
			clearPending(message.From.ID)
			return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("permission_denied"))
		}
		setPending(message.From.ID, &pendingInteraction{
			Stage:            stageAwaitRolePick,
			TargetTelegramID: targetID,
		})

		var keyboard [][]telego.InlineKeyboardButton
		for _, role := range assignable {
			keyboard = append(keyboard, []telego.InlineKeyboardButton{{
				Text:         string(role),
				CallbackData: CallbackCommand{Action: ActionPickRole, Role: role}.Encode(),
			}})
		}
		text := fmt.Sprintf(models.GetMessage("pick_role"), targetID, target.Role)
		return sendWithKeyboard(ctx.Context(), bot, message.Chat.ID, text, keyboard)
	}

	return nil
}

// handleGroupMessage enforces the gate: messages from unverified, banned or
// muted senders are removed before anyone reads them.
func handleGroupMessage(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	if !service.Groups.IsRegistered(message.Chat.ID) {
		return nil
	}

	account, err := service.Accounts.GetByTelegramID(message.From.ID)
	if err != nil {
		logger.Errorf("group gate: loading account %d: %v", message.From.ID, err)
		return nil
	}

	if account == nil || !account.Verified || account.RobloxID == nil {
		deleteGroupMessage(ctx, bot, message)
		warnUnverified(ctx, bot, message)
		return nil
	}

	banned, err := service.Moderation.IsCurrentlyBanned(*account.RobloxID)
	if err != nil {
		logger.Errorf("group gate: ban check for roblox %d: %v", *account.RobloxID, err)
		return nil
	}
	if banned {
		deleteGroupMessage(ctx, bot, message)
		return nil
	}

	muted, err := service.Moderation.IsCurrentlyMuted(*account.RobloxID)
	if err != nil {
		logger.Errorf("group gate: mute check for roblox %d: %v", *account.RobloxID, err)
		return nil
	}
	if muted {
		deleteGroupMessage(ctx, bot, message)
	}
	return nil
}

func deleteGroupMessage(ctx *th.Context, bot *telego.Bot, message telego.Message) {
	err := bot.DeleteMessage(ctx.Context(), &telego.DeleteMessageParams{
		ChatID:    telego.ChatID{ID: message.Chat.ID},
		MessageID: message.MessageID,
	})
	if err != nil {
		logger.Warningf("Error deleting message %d in chat %d: %v", message.MessageID, message.Chat.ID, err)
	}
}

func warnUnverified(ctx *th.Context, bot *telego.Bot, message telego.Message) {
	text := fmt.Sprintf(models.GetMessage("not_verified_warn"), displayName(message.From))
	warning, err := bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: message.Chat.ID},
		Text:   text,
	})
	if err != nil {
		logger.Warningf("Error sending unverified warning in chat %d: %v", message.Chat.ID, err)
		return
	}

	ttl := time.Duration(globalConfig.Verification.WarningTTLSecs) * time.Second
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	deleteMessageAfter(bot, message.Chat.ID, warning.MessageID, ttl)
}
