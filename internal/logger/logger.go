// Package logger provides structured logging for the assistant and the
// request logging middlewares of its Telegram and HTTP transports.
package logger

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const previewLength = 50

// NewLogger creates a slog Logger writing to stdout, as JSON when jsonOutput
// is set, and installs it as the default logger. Unknown levels mean info.
func NewLogger(levelStr string, jsonOutput bool) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// Middleware logs every Telegram update once its handler returns. Only a
// short preview of the message text is logged.
func Middleware(log *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			startTime := time.Now()
			entry := log.With(append([]any{"update_id", update.ID}, updateAttrs(update)...)...)

			entry.DebugContext(ctx, "Processing update")
			next(ctx, b, update)
			entry.InfoContext(ctx, "Handled update", "duration", time.Since(startTime))
		}
	}
}

func updateAttrs(u *models.Update) []any {
	switch {
	case u.Message != nil:
		return messageAttrs("message", u.Message)
	case u.EditedMessage != nil:
		return messageAttrs("edited_message", u.EditedMessage)
	case u.CallbackQuery != nil:
		return []any{"update_type", "callback_query", "user_id", u.CallbackQuery.From.ID}
	default:
		return []any{"update_type", "other"}
	}
}

func messageAttrs(kind string, m *models.Message) []any {
	attrs := []any{
		"update_type", kind,
		"message_id", m.ID,
		"chat_id", m.Chat.ID,
		"chat_type", m.Chat.Type,
		"text_preview", truncateString(m.Text, previewLength),
	}
	if m.From != nil {
		attrs = append(attrs, "user_id", m.From.ID)
	}
	return attrs
}

// HTTPMiddleware logs every HTTP request once it has been served. It reads
// the request id set by chi's middleware.RequestID when present.
func HTTPMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.InfoContext(r.Context(), "Handled HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(startTime),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// truncateString shortens s to at most maxLen runes, keeping UTF-8 intact.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}
