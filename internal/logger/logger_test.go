package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/grossessebot/internal/logger"
)

func TestHTTPMiddleware(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	handler := middleware.RequestID(logger.HTTPMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("ok"))
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, expected %d", rec.Code, http.StatusTeapot)
	}

	out := buf.String()
	for _, want := range []string{"Handled HTTP request", "method=GET", "path=/health", "status=418", "bytes=2", "request_id="} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q does not contain %q", out, want)
		}
	}
}

func TestNewLoggerLevels(t *testing.T) {
	testCases := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	for _, tc := range testCases {
		log := logger.NewLogger(tc.level, tc.level == "debug")
		if !log.Enabled(context.Background(), tc.expected) {
			t.Errorf("NewLogger(%q) does not enable %v", tc.level, tc.expected)
		}
		if tc.expected > slog.LevelDebug && log.Enabled(context.Background(), tc.expected-4) {
			t.Errorf("NewLogger(%q) enables the level below %v", tc.level, tc.expected)
		}
	}
}

func TestTelegramMiddleware(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	called := false
	h := logger.Middleware(log)(func(context.Context, *tgbot.Bot, *models.Update) { called = true })
	h(context.Background(), nil, &models.Update{
		ID: 7,
		Message: &models.Message{
			ID:   3,
			Text: strings.Repeat("é", 80),
			Chat: models.Chat{ID: 42, Type: models.ChatTypePrivate},
			From: &models.User{ID: 5},
		},
	})

	if !called {
		t.Fatal("next handler not called")
	}
	out := buf.String()
	for _, want := range []string{"Handled update", "update_id=7", "update_type=message", "chat_id=42", "user_id=5", strings.Repeat("é", 47) + "..."} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q does not contain %q", out, want)
		}
	}
	if strings.Contains(out, strings.Repeat("é", 48)) {
		t.Error("text preview not truncated")
	}
}
