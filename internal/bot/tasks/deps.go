// Package tasks implements the scheduled maintenance tasks: database
// maintenance, idle session eviction, history retention and risk model
// warm-up.
package tasks

import (
	"context"
	"log/slog"

	"github.com/edgard/grossessebot/internal/assistant"
	"github.com/edgard/grossessebot/internal/config"
	"github.com/edgard/grossessebot/internal/database"
	"github.com/edgard/grossessebot/internal/risk"
)

// ModelLoader loads (and caches) the risk model artifact.
type ModelLoader interface {
	Load(ctx context.Context) (*risk.TreeClassifier, error)
}

// TaskDeps contains all dependencies required by scheduled tasks.
// Model may be nil when no artifact is configured.
type TaskDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Store     database.Store
	Assistant *assistant.Service
	Model     ModelLoader
}
