package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// typingInterval refreshes the indicator before Telegram drops it
// after five seconds.
const typingInterval = 4 * time.Second

// keepTyping shows the typing indicator in chatID until the returned stop
// function is called or ctx ends.
func keepTyping(ctx context.Context, b *bot.Bot, chatID int64, logger *slog.Logger) (stop func()) {
	if logger == nil {
		logger = slog.Default()
	}

	typingCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	send := func() {
		_, err := b.SendChatAction(typingCtx, &bot.SendChatActionParams{
			ChatID: chatID,
			Action: models.ChatActionTyping,
		})
		if err != nil && typingCtx.Err() == nil {
			logger.DebugContext(typingCtx, "Failed to send typing action", "chat_id", chatID, "error", err)
		}
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(typingInterval)
		defer ticker.Stop()

		send()
		for {
			select {
			case <-typingCtx.Done():
				return
			case <-ticker.C:
				send()
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
