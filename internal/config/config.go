// Package config provides configuration loading, validation, and defaults
// for the pregnancy assistant. Values come from a YAML file, BOT_*
// environment variables and an optional .env file.
package config

import (
	"time"

	"github.com/go-telegram/bot/models"
)

// Config holds the application configuration for every component.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Chatbot   ChatbotConfig   `mapstructure:"chatbot"`
	Predictor PredictorConfig `mapstructure:"predictor"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls the slog handler.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// DatabaseConfig selects the SQL backend. For sqlite the DSN is a file path.
type DatabaseConfig struct {
	Driver           string        `mapstructure:"driver"            validate:"oneof=sqlite postgres"`
	DSN              string        `mapstructure:"dsn"               validate:"required"`
	HistoryRetention time.Duration `mapstructure:"history_retention" validate:"min=0"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout" validate:"min=1s,max=5m"`
}

// TelegramConfig configures the Telegram transport. BotInfo is filled at
// runtime from getMe.
type TelegramConfig struct {
	Enabled     bool         `mapstructure:"enabled"`
	Token       string       `mapstructure:"token"         validate:"required_if=Enabled true"`
	AdminUserID int64        `mapstructure:"admin_user_id" validate:"min=0"`
	BotInfo     *models.User `mapstructure:"-"`
}

// HTTPConfig configures the JSON and websocket API.
type HTTPConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Addr            string        `mapstructure:"addr"             validate:"required_if=Enabled true"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     validate:"min=1s"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    validate:"min=1s"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=1s"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// ChatbotConfig configures the dialogue sessions.
type ChatbotConfig struct {
	SessionTTL   time.Duration `mapstructure:"session_ttl"   validate:"min=1m"`
	HistoryLimit int           `mapstructure:"history_limit" validate:"min=1,max=100"`
}

// PredictorConfig locates the risk model artifact. With neither URL nor
// path set every prediction goes to the random fallback.
type PredictorConfig struct {
	ModelURL     string        `mapstructure:"model_url"     validate:"omitempty,url"`
	ModelPath    string        `mapstructure:"model_path"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" validate:"min=1s,max=10m"`
	MaxRetries   int           `mapstructure:"max_retries"   validate:"min=1,max=10"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig is one scheduled task. Schedule is a cron expression with an
// optional seconds field. RunOnStart also runs the task once at startup.
type TaskConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Schedule   string `mapstructure:"schedule"     validate:"required_if=Enabled true"`
	RunOnStart bool   `mapstructure:"run_on_start"`
}

// MessagesConfig holds the user-facing texts of the Telegram commands.
type MessagesConfig struct {
	Welcome              string `mapstructure:"welcome"                validate:"required"`
	Help                 string `mapstructure:"help"                   validate:"required"`
	ErrorGeneralMsg      string `mapstructure:"error_general_msg"      validate:"required"`
	ErrorUnauthorizedMsg string `mapstructure:"error_unauthorized_msg" validate:"required"`
	ResetConfirmMsg      string `mapstructure:"reset_confirm_msg"      validate:"required"`
	ResetErrorMsg        string `mapstructure:"reset_error_msg"        validate:"required"`
	SymptomUsageMsg      string `mapstructure:"symptom_usage_msg"      validate:"required"`
	SymptomNotFoundFmt   string `mapstructure:"symptom_not_found_fmt"  validate:"required"`
	StatsHeaderMsg       string `mapstructure:"stats_header_msg"       validate:"required"`
	StatsEmptyMsg        string `mapstructure:"stats_empty_msg"        validate:"required"`
}
