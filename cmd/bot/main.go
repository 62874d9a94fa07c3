// Package main contains the entrypoint for the pregnancy assistant: the
// Telegram bot, the HTTP API and the maintenance scheduler.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/grossessebot/internal/api"
	"github.com/edgard/grossessebot/internal/assistant"
	"github.com/edgard/grossessebot/internal/bot"
	"github.com/edgard/grossessebot/internal/bot/handlers"
	"github.com/edgard/grossessebot/internal/bot/tasks"
	"github.com/edgard/grossessebot/internal/chatbot"
	"github.com/edgard/grossessebot/internal/config"
	"github.com/edgard/grossessebot/internal/database"
	"github.com/edgard/grossessebot/internal/knowledge"
	"github.com/edgard/grossessebot/internal/logger"
	"github.com/edgard/grossessebot/internal/resilience"
	"github.com/edgard/grossessebot/internal/risk"
	"github.com/edgard/grossessebot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all components, blocks until shutdown and returns the
// process exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Error("Failed to connect to database", "driver", cfg.Database.Driver, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	var (
		classifier risk.Classifier = risk.NewRandomClassifier(nil)
		model      tasks.ModelLoader
	)
	if cfg.Predictor.ModelURL != "" || cfg.Predictor.ModelPath != "" {
		retry := resilience.DefaultRetryConfig()
		retry.MaxAttempts = cfg.Predictor.MaxRetries
		artifact := risk.NewArtifactClassifier(risk.ArtifactConfig{
			URL:          cfg.Predictor.ModelURL,
			Path:         cfg.Predictor.ModelPath,
			FetchTimeout: cfg.Predictor.FetchTimeout,
			Retry:        retry,
		}, log)
		classifier = risk.NewFallbackClassifier(artifact, nil, log)
		model = artifact
	} else {
		log.Warn("No risk model configured, predictions use the fallback classifier")
	}

	svc := assistant.New(assistant.Deps{
		Engine:           chatbot.NewEngine(knowledge.New(), nil, log),
		Registry:         chatbot.NewRegistry(),
		Predictor:        risk.NewPredictor(classifier, log),
		Store:            store,
		Logger:           log,
		OperationTimeout: cfg.Database.OperationTimeout,
		HistoryLimit:     cfg.Chatbot.HistoryLimit,
	})

	var tg *tgbot.Bot
	if cfg.Telegram.Enabled {
		hDeps := handlers.HandlerDeps{
			Logger:    log,
			Config:    cfg,
			Assistant: svc,
		}

		tg, err = telegram.NewTelegramBot(cfg.Telegram.Token, log,
			tgbot.WithMiddlewares(logger.Middleware(log)),
			tgbot.WithDefaultHandler(handlers.NewChatHandler(hDeps)),
		)
		if err != nil {
			log.Error("Failed to create Telegram bot", "error", err)
			return 1
		}

		cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
		if err != nil {
			log.Error("Failed to get bot info", "error", err)
			return 1
		}
		log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

		menu, err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps))
		if err != nil {
			log.Error("Failed to register Telegram handlers", "error", err)
			return 1
		}
		if err := telegram.PublishMenu(ctx, tg, menu); err != nil {
			log.Warn("Failed to publish Telegram command menu", "error", err)
		}
	}

	var httpServer *api.Server
	if cfg.HTTP.Enabled {
		httpServer = api.NewServer(cfg.HTTP, api.NewRouter(svc, cfg.HTTP, log), log)
	}

	if tg == nil && httpServer == nil {
		log.Error("Neither Telegram nor HTTP is enabled, nothing to serve")
		return 1
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger:    log,
		Config:    cfg,
		Store:     store,
		Assistant: svc,
		Model:     model,
	}))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, cfg, db, tg, httpServer, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
