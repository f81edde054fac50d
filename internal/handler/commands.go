package handler

import (
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-moderator/internal/logger"
	"tg-moderator/internal/models"
	"tg-moderator/internal/service"
)

// handleCommand dispatches slash commands. Returns handled=false for
// ordinary messages so they flow to the text handler.
func handleCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) (bool, error) {
	if message.From == nil || message.From.IsBot || !strings.HasPrefix(message.Text, "/") {
		return false, nil
	}

	command := message.Text
	args := ""
	if idx := strings.IndexByte(command, ' '); idx != -1 {
		command, args = command[:idx], strings.TrimSpace(command[idx+1:])
	}
	// Strip the bot-mention suffix used inside groups (/cmd@BotName)
	if idx := strings.IndexByte(command, '@'); idx != -1 {
		command = command[:idx]
	}

	switch command {
	case "/start":
		return true, handleStart(ctx, bot, message)
	case "/help":
		return true, sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("help"))
	case "/verify":
		return true, handleVerifyCommand(ctx, bot, message)
	case "/cancel":
		return true, handleCancelCommand(ctx, bot, message)
	case "/profile":
		return true, handleProfileCommand(ctx, bot, message)
	case "/admin":
		return true, handleAdminCommand(ctx, bot, message)
	case "/add_group":
		return true, handleAddGroupCommand(ctx, bot, message)
	case "/roles":
		return true, handleRolesCommand(ctx, bot, message, args)
	case "/audit":
		return true, handleAuditCommand(ctx, bot, message)
	}

	return false, nil
}

// handleStart greets unverified users with the verification button and
// shows verified users their profile.
func handleStart(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	account, err := actorAccount(message.From)
	if err != nil {
		logger.Errorf("start: loading account %d: %v", message.From.ID, err)
		return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("error_generic"))
	}

	if account.Verified {
		return sendProfile(ctx, bot, message.Chat.ID, account)
	}

	keyboard := [][]telego.InlineKeyboardButton{
		{{
			Text:         models.GetMessage("btn_begin"),
			CallbackData: CallbackCommand{Action: ActionBeginVerification}.Encode(),
		}},
	}
	return sendWithKeyboard(ctx.Context(), bot, message.Chat.ID, models.GetMessage("welcome"), keyboard)
}

func handleVerifyCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	_, err := service.Verification.Begin(ctx.Context(), message.From.ID, displayName(message.From))
	if err != nil {
		return sendText(ctx.Context(), bot, message.Chat.ID, userFacingError(err))
	}
	return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("enter_handle"))
}

func handleCancelCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	if err := service.Verification.Cancel(ctx.Context(), message.From.ID); err != nil {
		logger.Warningf("cancel: %v", err)
	}
	clearPending(message.From.ID)
	return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("cancelled"))
}

func handleProfileCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	account, err := service.Accounts.GetByTelegramID(message.From.ID)
	if err != nil {
		logger.Errorf("profile: loading account %d: %v", message.From.ID, err)
		return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("error_generic"))
	}
	if account == nil || !account.Verified {
		return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("profile_missing"))
	}
	return sendProfile(ctx, bot, message.Chat.ID, account)
}

func sendProfile(ctx *th.Context, bot *telego.Bot, chatID int64, account *models.Account) error {
	status := models.GetMessage("status_active")
	var robloxID int64
	if account.RobloxID != nil {
		robloxID = *account.RobloxID
		if banned, err := service.Moderation.IsCurrentlyBanned(robloxID); err == nil && banned {
			status = models.GetMessage("status_banned")
		} else if muted, err := service.Moderation.IsCurrentlyMuted(robloxID); err == nil && muted {
			status = models.GetMessage("status_muted")
		}
	}

	verified := "❌"
	if account.Verified {
		verified = "✅"
	}
	text := fmt.Sprintf(models.GetMessage("profile"),
		account.RobloxUsername,
		robloxID,
		account.CreatedAt.Format("2006-01-02"),
		account.Role,
		status,
		verified,
	)
	return sendText(ctx.Context(), bot, chatID, text)
}

func handleAdminCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	account, err := actorAccount(message.From)
	if err != nil {
		return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("error_generic"))
	}
	if !account.Role.IsAdministrator() {
		return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("permission_denied"))
	}

	keyboard := [][]telego.InlineKeyboardButton{
		{{Text: models.GetMessage("btn_ban"), CallbackData: CallbackCommand{Action: ActionPromptBan}.Encode()}},
		{{Text: models.GetMessage("btn_mute"), CallbackData: CallbackCommand{Action: ActionPromptMute}.Encode()}},
		{{Text: models.GetMessage("btn_roles"), CallbackData: CallbackCommand{Action: ActionPromptRole}.Encode()}},
		{{Text: models.GetMessage("btn_audit"), CallbackData: CallbackCommand{Action: ActionShowAudit}.Encode()}},
	}
	return sendWithKeyboard(ctx.Context(), bot, message.Chat.ID, models.GetMessage("admin_panel"), keyboard)
}

func handleAddGroupCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	if message.Chat.Type != "group" && message.Chat.Type != "supergroup" {
		return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("groups_only"))
	}

	if err := service.Groups.Register(message.Chat.ID, message.Chat.Title, message.From.ID); err != nil {
		logger.Errorf("add_group: %v", err)
		return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("error_generic"))
	}
	return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("group_registered"))
}

func handleRolesCommand(ctx *th.Context, bot *telego.Bot, message telego.Message, args string) error {
	account, err := actorAccount(message.From)
	if err != nil {
		return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("error_generic"))
	}

	role, ok := models.ParseRole(strings.ToLower(args))
	if !ok {
		role = models.RoleModerator
	}

	accounts, err := service.Roles.ListByRole(account, role)
	if err != nil {
		return sendText(ctx.Context(), bot, message.Chat.ID, userFacingError(err))
	}

	if len(accounts) == 0 {
		return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("roles_empty"))
	}

	var b strings.Builder
	fmt.Fprintf(&b, models.GetMessage("roles_header"), role)
	for _, acct := range accounts {
		fmt.Fprintf(&b, "\n• %d %s", acct.TelegramID, acct.DisplayName)
	}
	return sendText(ctx.Context(), bot, message.Chat.ID, b.String())
}

func handleAuditCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	account, err := actorAccount(message.From)
	if err != nil {
		return sendText(ctx.Context(), bot, message.Chat.ID, models.GetMessage("error_generic"))
	}

	entries, err := service.Roles.RecentAudit(account, 10)
	if err != nil {
		return sendText(ctx.Context(), bot, message.Chat.ID, userFacingError(err))
	}
	return sendText(ctx.Context(), bot, message.Chat.ID, formatAuditEntries(entries))
}

func formatAuditEntries(entries []*models.AuditLogEntry) string {
	if len(entries) == 0 {
		return models.GetMessage("audit_empty")
	}
	var b strings.Builder
	b.WriteString(models.GetMessage("audit_header"))
	for _, e := range entries {
		fmt.Fprintf(&b, "\n• [%s] actor=%d %s target=%d %s",
			e.CreatedAt.Format("2006-01-02 15:04"), e.ActorID, e.ActionKind, e.TargetID, e.Details)
	}
	return b.String()
}
