package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the database operations. Methods accept a context for
// cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveTurn inserts a conversation turn.
	SaveTurn(ctx context.Context, turn *ConversationTurn) error

	// ListSessionTurns returns the latest turns of a session, oldest first.
	ListSessionTurns(ctx context.Context, sessionID string, limit int) ([]ConversationTurn, error)

	// DeleteSessionTurns removes every turn of a session (reset command).
	DeleteSessionTurns(ctx context.Context, sessionID string) (int64, error)

	// PurgeTurnsBefore removes turns created before the given time.
	PurgeTurnsBefore(ctx context.Context, before time.Time) (int64, error)

	// SaveEvaluation inserts a completed risk evaluation.
	SaveEvaluation(ctx context.Context, eval *RiskEvaluation) error

	// CountEvaluationsByLabel returns the number of evaluations per risk label.
	CountEvaluationsByLabel(ctx context.Context) (map[string]int, error)

	// RunSQLMaintenance performs database maintenance such as VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore implements Store with sqlx. Queries use ? placeholders and are
// rebound for the connected driver.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by a connected sqlx.DB.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveTurn inserts a conversation turn. CreatedAt defaults to now.
func (s *sqlxStore) SaveTurn(ctx context.Context, turn *ConversationTurn) error {
	if turn == nil {
		return fmt.Errorf("cannot save nil conversation turn")
	}
	if turn.SessionID == "" {
		return fmt.Errorf("conversation turn must have a session_id")
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	query := `
        INSERT INTO conversation_turns (session_id, user_message, intent, sentiment, is_emergency, response, created_at)
        VALUES (:session_id, :user_message, :intent, :sentiment, :is_emergency, :response, :created_at);
    `
	if _, err := s.db.NamedExecContext(ctx, query, turn); err != nil {
		s.logger.ErrorContext(ctx, "Error saving conversation turn", "session_id", turn.SessionID, "error", err)
		return fmt.Errorf("failed to save conversation turn (session %s): %w", turn.SessionID, err)
	}

	s.logger.DebugContext(ctx, "Conversation turn saved", "session_id", turn.SessionID, "intent", turn.Intent)
	return nil
}

// ListSessionTurns returns at most limit turns, the latest ones, in
// chronological order.
func (s *sqlxStore) ListSessionTurns(ctx context.Context, sessionID string, limit int) ([]ConversationTurn, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session_id cannot be empty")
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	query := s.db.Rebind(`
        SELECT id, session_id, user_message, intent, sentiment, is_emergency, response, created_at
        FROM conversation_turns
        WHERE session_id = ?
        ORDER BY created_at DESC, id DESC
        LIMIT ?;
    `)

	var turns []ConversationTurn
	if err := s.db.SelectContext(ctx, &turns, query, sessionID, limit); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Error listing conversation turns", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("failed to list turns for session %s: %w", sessionID, err)
	}

	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// DeleteSessionTurns removes the turns of one session.
func (s *sqlxStore) DeleteSessionTurns(ctx context.Context, sessionID string) (int64, error) {
	if sessionID == "" {
		return 0, fmt.Errorf("session_id cannot be empty")
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM conversation_turns WHERE session_id = ?`), sessionID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting conversation turns", "session_id", sessionID, "error", err)
		return 0, fmt.Errorf("failed to delete turns for session %s: %w", sessionID, err)
	}

	n, _ := res.RowsAffected()
	s.logger.InfoContext(ctx, "Deleted session turns", "session_id", sessionID, "count", n)
	return n, nil
}

// PurgeTurnsBefore removes turns older than before.
func (s *sqlxStore) PurgeTurnsBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM conversation_turns WHERE created_at < ?`), before.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error purging conversation turns", "before", before, "error", err)
		return 0, fmt.Errorf("failed to purge conversation turns: %w", err)
	}

	n, _ := res.RowsAffected()
	return n, nil
}

// SaveEvaluation inserts a risk evaluation in a transaction.
func (s *sqlxStore) SaveEvaluation(ctx context.Context, eval *RiskEvaluation) error {
	if eval == nil {
		return fmt.Errorf("cannot save nil risk evaluation")
	}
	if eval.EvaluationID == "" {
		return fmt.Errorf("risk evaluation must have an evaluation_id")
	}
	if eval.RiskLabel == "" {
		return fmt.Errorf("risk evaluation must have a risk_label")
	}
	if eval.CreatedAt.IsZero() {
		eval.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for saving risk evaluation", "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	query := `
        INSERT INTO risk_evaluations (evaluation_id, session_id, age, duration_months, weight_kg, height_cm,
                                      activity, diet, history, symptom, risk_label, created_at)
        VALUES (:evaluation_id, :session_id, :age, :duration_months, :weight_kg, :height_cm,
                :activity, :diet, :history, :symptom, :risk_label, :created_at);
    `
	result, err := tx.NamedExecContext(ctx, query, eval)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving risk evaluation", "evaluation_id", eval.EvaluationID, "error", err)
		return fmt.Errorf("failed to save risk evaluation %s: %w", eval.EvaluationID, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected when saving risk evaluation",
			"evaluation_id", eval.EvaluationID, "affected", affected)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit risk evaluation", "evaluation_id", eval.EvaluationID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Risk evaluation saved", "evaluation_id", eval.EvaluationID, "label", eval.RiskLabel)
	return nil
}

// CountEvaluationsByLabel groups the stored evaluations by label.
func (s *sqlxStore) CountEvaluationsByLabel(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Label string `db:"risk_label"`
		Count int    `db:"total"`
	}

	query := `SELECT risk_label, COUNT(*) AS total FROM risk_evaluations GROUP BY risk_label`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		s.logger.ErrorContext(ctx, "Error counting risk evaluations", "error", err)
		return nil, fmt.Errorf("failed to count risk evaluations: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Label] = r.Count
	}
	return counts, nil
}

// RunSQLMaintenance reclaims space and refreshes planner statistics.
// VACUUM cannot run inside a transaction on either dialect.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context done before starting maintenance", "error", ctx.Err())
		return ctx.Err()
	}

	stmt := "VACUUM;"
	if s.db.DriverName() == DriverPostgres {
		stmt = "VACUUM ANALYZE;"
	}

	s.logger.InfoContext(ctx, "Starting database maintenance", "statement", stmt)
	_, err := s.db.ExecContext(ctx, stmt)

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Database maintenance timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance failed", "error", err)
		return fmt.Errorf("failed to execute %s: %w", stmt, err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed")
	return nil
}
