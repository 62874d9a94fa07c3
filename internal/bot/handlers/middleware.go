// Package handlers contains the Telegram command and message handlers of the
// assistant, their registration table and their middleware.
package handlers

import (
	"context"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// isAdmin reports whether userID may run admin commands. With no admin
// configured nobody may.
func (d HandlerDeps) isAdmin(userID int64) bool {
	adminID := d.Config.Telegram.AdminUserID
	return adminID != 0 && userID == adminID
}

// AdminOnly restricts a handler to the configured admin. Other senders get
// the unauthorized message; updates without a sender are dropped.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			msg := update.Message
			if msg == nil || msg.From == nil {
				return
			}
			if deps.isAdmin(msg.From.ID) {
				next(ctx, b, update)
				return
			}

			log := deps.Logger.With("middleware", "admin_only")
			log.WarnContext(ctx, "Unauthorized access attempt", "user_id", msg.From.ID, "chat_id", msg.Chat.ID)
			sendText(ctx, b, log, msg.Chat.ID, deps.Config.Messages.ErrorUnauthorizedMsg)
		}
	}
}

// sendText sends a plain text message and logs a failure.
func sendText(ctx context.Context, b *tgbot.Bot, log *slog.Logger, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}
