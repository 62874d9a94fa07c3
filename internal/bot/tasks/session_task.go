package tasks

import (
	"context"
	"fmt"
	"time"
)

// newSessionEvictionTask drops conversation sessions idle for longer than
// chatbot.session_ttl.
func newSessionEvictionTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "session_eviction")

	return func(ctx context.Context) error {
		ttl := deps.Config.Chatbot.SessionTTL
		evicted := deps.Assistant.EvictIdle(ttl)
		log.InfoContext(ctx, "Evicted idle sessions", "count", evicted, "ttl", ttl)
		return nil
	}
}

// newHistoryPurgeTask deletes stored turns older than
// database.history_retention. A zero retention keeps everything.
func newHistoryPurgeTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "history_purge")

	return func(ctx context.Context) error {
		retention := deps.Config.Database.HistoryRetention
		if retention <= 0 {
			log.DebugContext(ctx, "History retention disabled, nothing to purge")
			return nil
		}

		cutoff := time.Now().Add(-retention)
		purged, err := deps.Store.PurgeTurnsBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("history purge failed: %w", err)
		}

		log.InfoContext(ctx, "Purged old conversation turns", "count", purged, "before", cutoff)
		return nil
	}
}

// newModelWarmupTask loads the risk model artifact ahead of the first
// prediction. Loading is cached, so later runs only retry after failures.
func newModelWarmupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "model_warmup")

	return func(ctx context.Context) error {
		if deps.Model == nil {
			log.DebugContext(ctx, "No model artifact configured, skipping warm-up")
			return nil
		}

		tree, err := deps.Model.Load(ctx)
		if err != nil {
			return fmt.Errorf("model warm-up failed: %w", err)
		}

		log.InfoContext(ctx, "Risk model ready", "classes", tree.Classes())
		return nil
	}
}
