package handlers

import (
	"fmt"
	"log/slog"

	"github.com/edgard/grossessebot/internal/assistant"
	"github.com/edgard/grossessebot/internal/config"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Assistant *assistant.Service
}

// SessionKey returns the assistant session used for a Telegram chat.
func SessionKey(chatID int64) string {
	return fmt.Sprintf("tg:%d", chatID)
}

// botUsername returns the bot username once getMe has filled BotInfo.
func (d HandlerDeps) botUsername() string {
	if d.Config == nil || d.Config.Telegram.BotInfo == nil {
		return ""
	}
	return d.Config.Telegram.BotInfo.Username
}

func (d HandlerDeps) botID() int64 {
	if d.Config == nil || d.Config.Telegram.BotInfo == nil {
		return 0
	}
	return d.Config.Telegram.BotInfo.ID
}
