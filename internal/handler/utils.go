package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-moderator/internal/crash"
	"tg-moderator/internal/logger"
	"tg-moderator/internal/models"
	"tg-moderator/internal/service"
)

// sendText sends a plain HTML-formatted message to a chat.
func sendText(ctx context.Context, bot *telego.Bot, chatID int64, text string) error {
	_, err := bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: "HTML",
	})
	return err
}

// sendWithKeyboard sends a message with an inline keyboard.
func sendWithKeyboard(ctx context.Context, bot *telego.Bot, chatID int64, text string, keyboard [][]telego.InlineKeyboardButton) error {
	_, err := bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID:      telego.ChatID{ID: chatID},
		Text:        text,
		ParseMode:   "HTML",
		ReplyMarkup: &telego.InlineKeyboardMarkup{InlineKeyboard: keyboard},
	})
	return err
}

// editCallbackMessage replaces the text (and keyboard) of the message a
// callback button was attached to, when it is still accessible.
func editCallbackMessage(ctx context.Context, bot *telego.Bot, query telego.CallbackQuery, text string, keyboard [][]telego.InlineKeyboardButton) {
	if query.Message == nil {
		return
	}
	params := &telego.EditMessageTextParams{
		ChatID:    telego.ChatID{ID: query.Message.GetChat().ID},
		MessageID: query.Message.GetMessageID(),
		Text:      text,
		ParseMode: "HTML",
	}
	if keyboard != nil {
		params.ReplyMarkup = &telego.InlineKeyboardMarkup{InlineKeyboard: keyboard}
	}
	if _, err := bot.EditMessageText(ctx, params); err != nil {
		logger.Warningf("Error editing callback message: %v", err)
	}
}

// answerCallback acknowledges a callback query, optionally with an alert.
func answerCallback(ctx context.Context, bot *telego.Bot, queryID, text string, alert bool) {
	err := bot.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		logger.Warningf("Error answering callback query: %v", err)
	}
}

// deleteMessageAfter removes a message once the TTL elapses. Used for the
// "you are not verified" warnings so they do not pile up in the group.
func deleteMessageAfter(bot *telego.Bot, chatID int64, messageID int, ttl time.Duration) {
	crash.SafeGoroutine("delete-message", func() {
		time.Sleep(ttl)
		err := bot.DeleteMessage(context.Background(), &telego.DeleteMessageParams{
			ChatID:    telego.ChatID{ID: chatID},
			MessageID: messageID,
		})
		if err != nil {
			logger.Debugf("Error deleting delayed message %d in chat %d: %v", messageID, chatID, err)
		}
	})
}

// displayName builds a human-readable name for a Telegram user.
func displayName(user *telego.User) string {
	if user == nil {
		return ""
	}
	name := user.FirstName
	if user.LastName != "" {
		name += " " + user.LastName
	}
	return name
}

// actorAccount loads (lazily creating) the account row for a sender.
func actorAccount(user *telego.User) (*models.Account, error) {
	if user == nil {
		return nil, service.ErrNotFound
	}
	return service.Accounts.GetOrCreate(user.ID, displayName(user))
}

// userFacingError maps a domain error to its catalog message. Unknown
// errors fall back to the generic text.
func userFacingError(err error) string {
	switch {
	case errors.Is(err, service.ErrAlreadyVerified):
		return models.GetMessage("already_verified")
	case errors.Is(err, service.ErrSanctioned):
		return models.GetMessage("sanctioned")
	case errors.Is(err, service.ErrStateMismatch):
		return models.GetMessage("wrong_step")
	case errors.Is(err, service.ErrExternalAccountNotFound):
		return models.GetMessage("handle_not_found")
	case errors.Is(err, service.ErrExternalServiceUnavailable):
		return models.GetMessage("service_unavailable")
	case errors.Is(err, service.ErrCodeNotFound):
		return models.GetMessage("code_not_found")
	case errors.Is(err, service.ErrAlreadyLinked):
		return models.GetMessage("already_verified")
	case errors.Is(err, service.ErrPermissionDenied):
		return models.GetMessage("permission_denied")
	case errors.Is(err, service.ErrNotFound):
		return models.GetMessage("account_not_found")
	default:
		return models.GetMessage("error_generic")
	}
}

// broadcastVerified announces a newly verified account to every registered
// group.
func broadcastVerified(ctx *th.Context, bot *telego.Bot, account *models.Account) {
	if account.RobloxID == nil {
		return
	}
	text := fmt.Sprintf(models.GetMessage("verified_broadcast"),
		account.DisplayName, account.RobloxUsername, *account.RobloxID)
	for _, group := range service.Groups.All() {
		if err := sendText(ctx.Context(), bot, group.GroupID, text); err != nil {
			logger.Warningf("Error broadcasting verification to group %d: %v", group.GroupID, err)
		}
	}
}
