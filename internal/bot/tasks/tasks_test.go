package tasks_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/edgard/grossessebot/internal/assistant"
	"github.com/edgard/grossessebot/internal/bot/tasks"
	"github.com/edgard/grossessebot/internal/chatbot"
	"github.com/edgard/grossessebot/internal/config"
	"github.com/edgard/grossessebot/internal/database"
	"github.com/edgard/grossessebot/internal/knowledge"
	"github.com/edgard/grossessebot/internal/risk"
)

const modelJSON = `{
  "format": "decision_tree",
  "classes": ["normal", "élevé"],
  "nodes": [{"class": 0}]
}`

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type failingLoader struct{}

func (failingLoader) Load(context.Context) (*risk.TreeClassifier, error) {
	return nil, risk.ErrModelUnavailable
}

type fixture struct {
	deps  tasks.TaskDeps
	clock *clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.NewDB(database.DriverSQLite, filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := database.NewStore(db, log)
	clk := &clock{now: time.Now()}

	svc := assistant.New(assistant.Deps{
		Engine:    chatbot.NewEngine(knowledge.New(), nil, log),
		Registry:  chatbot.NewRegistryWithClock(clk.Now),
		Predictor: risk.NewPredictor(risk.NewRandomClassifier(nil), log),
		Store:     store,
		Logger:    log,
	})

	return &fixture{
		deps: tasks.TaskDeps{
			Logger:    log,
			Config:    cfg,
			Store:     store,
			Assistant: svc,
		},
		clock: clk,
	}
}

func TestRegisterAllTasks(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	registered := tasks.RegisterAllTasks(f.deps)

	for name := range f.deps.Config.Scheduler.Tasks {
		if registered[name] == nil {
			t.Errorf("configured task %q has no implementation", name)
		}
	}
	if len(registered) != 4 {
		t.Errorf("registered %d tasks, expected 4", len(registered))
	}
}

func TestSQLMaintenanceTask(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	task := tasks.RegisterAllTasks(f.deps)["sql_maintenance"]
	if err := task(context.Background()); err != nil {
		t.Errorf("sql_maintenance error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := task(ctx); err == nil {
		t.Error("sql_maintenance succeeded with a cancelled context")
	}
}

func TestSessionEvictionTask(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	svc := f.deps.Assistant

	if _, err := svc.HandleMessage(ctx, "idle", "J'ai 30 ans"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	task := tasks.RegisterAllTasks(f.deps)["session_eviction"]

	if err := task(ctx); err != nil {
		t.Fatalf("session_eviction error = %v", err)
	}
	if got := svc.Summary("idle"); got == chatbot.EmptySummary {
		t.Fatal("fresh session was evicted")
	}

	f.clock.Advance(f.deps.Config.Chatbot.SessionTTL + time.Minute)
	if err := task(ctx); err != nil {
		t.Fatalf("session_eviction error = %v", err)
	}
	if got := svc.Summary("idle"); got != chatbot.EmptySummary {
		t.Errorf("idle session survived eviction: %q", got)
	}
}

func TestHistoryPurgeTask(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		retention time.Duration
		remaining int
	}{
		{"purges old turns", 24 * time.Hour, 1},
		{"zero retention keeps everything", 0, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			f.deps.Config.Database.HistoryRetention = tc.retention
			ctx := context.Background()

			now := time.Now().UTC()
			for _, at := range []time.Time{now.Add(-72 * time.Hour), now.Add(-time.Hour)} {
				turn := &database.ConversationTurn{SessionID: "s", UserMessage: "Bonjour", Intent: "greeting", Sentiment: "neutral", Response: "Bonjour !", CreatedAt: at}
				if err := f.deps.Store.SaveTurn(ctx, turn); err != nil {
					t.Fatalf("SaveTurn() error = %v", err)
				}
			}

			if err := tasks.RegisterAllTasks(f.deps)["history_purge"](ctx); err != nil {
				t.Fatalf("history_purge error = %v", err)
			}

			turns, err := f.deps.Store.ListSessionTurns(ctx, "s", 0)
			if err != nil {
				t.Fatalf("ListSessionTurns() error = %v", err)
			}
			if len(turns) != tc.remaining {
				t.Errorf("%d turns remain, expected %d", len(turns), tc.remaining)
			}
		})
	}
}

func TestModelWarmupTask(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("no model configured", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		if err := tasks.RegisterAllTasks(f.deps)["model_warmup"](ctx); err != nil {
			t.Errorf("model_warmup error = %v", err)
		}
	})

	t.Run("unavailable model", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.deps.Model = failingLoader{}
		err := tasks.RegisterAllTasks(f.deps)["model_warmup"](ctx)
		if !errors.Is(err, risk.ErrModelUnavailable) {
			t.Errorf("model_warmup error = %v, expected ErrModelUnavailable", err)
		}
	})

	t.Run("artifact on disk", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "model.json")
		if err := os.WriteFile(path, []byte(modelJSON), 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		f := newFixture(t)
		f.deps.Model = risk.NewArtifactClassifier(risk.ArtifactConfig{Path: path}, f.deps.Logger)
		if err := tasks.RegisterAllTasks(f.deps)["model_warmup"](ctx); err != nil {
			t.Errorf("model_warmup error = %v", err)
		}
	})
}
