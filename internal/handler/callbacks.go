package handler

import (
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-moderator/internal/logger"
	"tg-moderator/internal/models"
	"tg-moderator/internal/service"
)

// HandleCallbackQuery processes callback queries from inline keyboards.
// The callback data is decoded into a typed command exactly once here.
func HandleCallbackQuery(ctx *th.Context, bot *telego.Bot, query telego.CallbackQuery) error {
	if query.Data == "" {
		return nil
	}

	cmd, err := ParseCallbackCommand(query.Data)
	if err != nil {
		logger.Warningf("Ignoring malformed callback data from %d: %v", query.From.ID, err)
		answerCallback(ctx.Context(), bot, query.ID, "", false)
		return nil
	}

	logger.Debugf("callback %s from account %d", cmd.Action, query.From.ID)

	switch cmd.Action {
	case ActionBeginVerification:
		return handleBeginCallback(ctx, bot, query)
	case ActionConfirmProof:
		return handleConfirmCallback(ctx, bot, query)
	case ActionRegenerateCode:
		return handleRegenerateCallback(ctx, bot, query)
	case ActionPromptBan:
		return handleModerationPrompt(ctx, bot, query, stageAwaitBanTarget, "enter_ban_target")
	case ActionPromptMute:
		return handleModerationPrompt(ctx, bot, query, stageAwaitMuteTarget, "enter_mute_target")
	case ActionPromptRole:
		return handleRolePrompt(ctx, bot, query)
	case ActionShowAudit:
		return handleAuditCallback(ctx, bot, query)
	case ActionPickDuration:
		return handleDurationCallback(ctx, bot, query, cmd)
	case ActionPickRole:
		return handleRolePickCallback(ctx, bot, query, cmd)
	case ActionAdminPanel:
		answerCallback(ctx.Context(), bot, query.ID, "", false)
		return nil
	}

	return nil
}

func handleBeginCallback(ctx *th.Context, bot *telego.Bot, query telego.CallbackQuery) error {
	answerCallback(ctx.Context(), bot, query.ID, "", false)

	_, err := service.Verification.Begin(ctx.Context(), query.From.ID, displayName(&query.From))
	if err != nil {
		editCallbackMessage(ctx.Context(), bot, query, userFacingError(err), nil)
		return nil
	}

	editCallbackMessage(ctx.Context(), bot, query, models.GetMessage("enter_handle"), nil)
	return nil
}

func handleConfirmCallback(ctx *th.Context, bot *telego.Bot, query telego.CallbackQuery) error {
	account, err := service.Verification.ConfirmProof(ctx.Context(), query.From.ID)
	if err != nil {
		// Recoverable outcomes keep the session open: answer with an alert
		// so the user can edit the profile and press the button again.
		answerCallback(ctx.Context(), bot, query.ID, userFacingError(err), true)
		return nil
	}

	answerCallback(ctx.Context(), bot, query.ID, "", false)
	text := fmt.Sprintf(models.GetMessage("verified"), account.RobloxUsername, *account.RobloxID)
	editCallbackMessage(ctx.Context(), bot, query, text, nil)

	broadcastVerified(ctx, bot, account)
	return nil
}

func handleRegenerateCallback(ctx *th.Context, bot *telego.Bot, query telego.CallbackQuery) error {
	code, err := service.Verification.RegenerateCode(ctx.Context(), query.From.ID)
	if err != nil {
		answerCallback(ctx.Context(), bot, query.ID, userFacingError(err), true)
		return nil
	}

	answerCallback(ctx.Context(), bot, query.ID, "", false)
	keyboard := [][]telego.InlineKeyboardButton{
		{{Text: models.GetMessage("btn_code_added"), CallbackData: CallbackCommand{Action: ActionConfirmProof}.Encode()}},
		{{Text: models.GetMessage("btn_new_code"), CallbackData: CallbackCommand{Action: ActionRegenerateCode}.Encode()}},
	}
	text := fmt.Sprintf(models.GetMessage("code_regenerated"), code)
	editCallbackMessage(ctx.Context(), bot, query, text, keyboard)
	return nil
}

func handleModerationPrompt(ctx *th.Context, bot *telego.Bot, query telego.CallbackQuery, stage pendingStage, promptKey string) error {
	actor, err := actorAccount(&query.From)
	if err != nil || !actor.Role.IsAdministrator() {
		answerCallback(ctx.Context(), bot, query.ID, models.GetMessage("permission_denied"), true)
		return nil
	}

	setPending(query.From.ID, &pendingInteraction{Stage: stage})
	answerCallback(ctx.Context(), bot, query.ID, "", false)
	editCallbackMessage(ctx.Context(), bot, query, models.GetMessage(promptKey), nil)
	return nil
}

func handleRolePrompt(ctx *th.Context, bot *telego.Bot, query telego.CallbackQuery) error {
	actor, err := actorAccount(&query.From)
	if err != nil || len(actor.Role.AssignableRoles()) == 0 {
		answerCallback(ctx.Context(), bot, query.ID, models.GetMessage("permission_denied"), true)
		return nil
	}

	setPending(query.From.ID, &pendingInteraction{Stage: stageAwaitRoleTarget})
	answerCallback(ctx.Context(), bot, query.ID, "", false)
	editCallbackMessage(ctx.Context(), bot, query, models.GetMessage("enter_role_target"), nil)
	return nil
}

func handleAuditCallback(ctx *th.Context, bot *telego.Bot, query telego.CallbackQuery) error {
	actor, err := actorAccount(&query.From)
	if err != nil {
		answerCallback(ctx.Context(), bot, query.ID, models.GetMessage("error_generic"), true)
		return nil
	}

	entries, err := service.Roles.RecentAudit(actor, 10)
	if err != nil {
		answerCallback(ctx.Context(), bot, query.ID, userFacingError(err), true)
		return nil
	}

	answerCallback(ctx.Context(), bot, query.ID, "", false)
	editCallbackMessage(ctx.Context(), bot, query, formatAuditEntries(entries), nil)
	return nil
}

// handleDurationCallback applies the pending ban or mute with the chosen
// duration from the fixed vocabulary.
func handleDurationCallback(ctx *th.Context, bot *telego.Bot, query telego.CallbackQuery, cmd CallbackCommand) error {
	pending := getPending(query.From.ID)
	if pending == nil || pending.Stage != stageAwaitDuration || pending.Kind != cmd.Kind {
		answerCallback(ctx.Context(), bot, query.ID, models.GetMessage("wrong_step"), true)
		return nil
	}

	actor, err := actorAccount(&query.From)
	if err != nil {
		answerCallback(ctx.Context(), bot, query.ID, models.GetMessage("error_generic"), true)
		return nil
	}

	duration, ok := models.FindDuration(cmd.Kind, cmd.DurationKey)
	if !ok {
		answerCallback(ctx.Context(), bot, query.ID, models.GetMessage("error_generic"), true)
		return nil
	}

	var applyErr error
	msgKey := "ban_applied"
	if cmd.Kind == models.ActionMute {
		msgKey = "mute_applied"
		_, applyErr = service.Moderation.ApplyMute(actor, pending.RobloxID, pending.Reason, duration)
	} else {
		_, applyErr = service.Moderation.ApplyBan(actor, pending.RobloxID, pending.Reason, duration)
	}
	if applyErr != nil {
		answerCallback(ctx.Context(), bot, query.ID, userFacingError(applyErr), true)
		return nil
	}

	clearPending(query.From.ID)
	answerCallback(ctx.Context(), bot, query.ID, "", false)
	text := fmt.Sprintf(models.GetMessage(msgKey), pending.RobloxID, pending.Reason, duration.Label)
	editCallbackMessage(ctx.Context(), bot, query, text, nil)
	return nil
}

// handleRolePickCallback applies the pending role assignment.
func handleRolePickCallback(ctx *th.Context, bot *telego.Bot, query telego.CallbackQuery, cmd CallbackCommand) error {
	pending := getPending(query.From.ID)
	if pending == nil || pending.Stage != stageAwaitRolePick {
		answerCallback(ctx.Context(), bot, query.ID, models.GetMessage("wrong_step"), true)
		return nil
	}

	actor, err := actorAccount(&query.From)
	if err != nil {
		answerCallback(ctx.Context(), bot, query.ID, models.GetMessage("error_generic"), true)
		return nil
	}

	previous, err := service.Roles.Assign(actor, pending.TargetTelegramID, cmd.Role)
	if err != nil {
		answerCallback(ctx.Context(), bot, query.ID, userFacingError(err), true)
		return nil
	}

	clearPending(query.From.ID)
	answerCallback(ctx.Context(), bot, query.ID, "", false)
	text := fmt.Sprintf(models.GetMessage("role_assigned"), pending.TargetTelegramID, cmd.Role, previous)
	editCallbackMessage(ctx.Context(), bot, query, text, nil)
	return nil
}
