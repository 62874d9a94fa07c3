package tasks

import (
	"context"
	"fmt"
	"time"
)

// newSQLMaintenanceTask checks the database is reachable, then compacts it
// (VACUUM on SQLite, VACUUM ANALYZE on PostgreSQL) and reports how many risk
// evaluations are stored per label.
func newSQLMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "sql_maintenance", "driver", deps.Config.Database.Driver)

	return func(ctx context.Context) error {
		if err := deps.Store.Ping(ctx); err != nil {
			return fmt.Errorf("database unreachable, skipping maintenance: %w", err)
		}

		start := time.Now()
		if err := deps.Store.RunSQLMaintenance(ctx); err != nil {
			return fmt.Errorf("sql maintenance failed after %s: %w", time.Since(start), err)
		}

		counts, err := deps.Store.CountEvaluationsByLabel(ctx)
		if err != nil {
			log.WarnContext(ctx, "Could not count stored evaluations", "error", err)
		}
		log.InfoContext(ctx, "Database compacted", "duration", time.Since(start), "evaluations", counts)
		return nil
	}
}
