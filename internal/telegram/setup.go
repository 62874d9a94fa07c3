// Package telegram creates the Telegram client and installs the command
// handlers and the command menu.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/grossessebot/internal/bot/handlers"
)

// NewTelegramBot creates the go-telegram/bot client.
func NewTelegramBot(token string, logger *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info("Telegram bot instance created", "component", "telegram_bot", "token_prefix", tokenPrefix(token))
	return b, nil
}

func tokenPrefix(token string) string {
	if len(token) <= 8 {
		return "..."
	}
	return token[:8] + "..."
}

// chain wraps h so that mw[0] is the outermost middleware.
func chain(h bot.HandlerFunc, mw []bot.Middleware) bot.HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

// RegisterHandlers installs every command handler on b and returns the menu
// entries of the commands that carry a description, sorted by command.
func RegisterHandlers(b *bot.Bot, logger *slog.Logger, registered map[string]handlers.RegisteredHandler) ([]models.BotCommand, error) {
	if b == nil {
		return nil, fmt.Errorf("bot instance cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "handler_registry")

	var menu []models.BotCommand
	for name, rh := range registered {
		if rh.Handler == nil {
			log.Warn("Skipping command without handler", "command", name)
			continue
		}

		b.RegisterHandler(rh.HandlerType, rh.Pattern, rh.MatchType, chain(rh.Handler, rh.Middleware))
		log.Debug("Registered handler", "command", name, "middleware_count", len(rh.Middleware))

		if rh.Description != "" {
			menu = append(menu, models.BotCommand{Command: rh.Pattern, Description: rh.Description})
		}
	}
	sort.Slice(menu, func(i, j int) bool { return menu[i].Command < menu[j].Command })

	log.Info("Registered Telegram handlers", "count", len(registered), "menu_entries", len(menu))
	return menu, nil
}

// PublishMenu sets the command menu shown by Telegram clients.
func PublishMenu(ctx context.Context, b *bot.Bot, menu []models.BotCommand) error {
	if len(menu) == 0 {
		return nil
	}
	if _, err := b.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: menu}); err != nil {
		return fmt.Errorf("failed to publish command menu: %w", err)
	}
	return nil
}
