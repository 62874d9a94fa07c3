package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BOT_TELEGRAM_TOKEN.
const EnvPrefix = "BOT"

var defaults = map[string]any{
	"logger.level": "info",
	"logger.json":  false,

	"database.driver":            "sqlite",
	"database.dsn":               "grossesse.db",
	"database.history_retention": 30 * 24 * time.Hour,
	"database.operation_timeout": 15 * time.Second,

	"telegram.enabled":       false,
	"telegram.token":         "",
	"telegram.admin_user_id": 0,

	"http.enabled":          true,
	"http.addr":             ":8080",
	"http.read_timeout":     15 * time.Second,
	"http.write_timeout":    30 * time.Second,
	"http.shutdown_timeout": 10 * time.Second,
	"http.allowed_origins":  []string{"*"},

	"chatbot.session_ttl":   2 * time.Hour,
	"chatbot.history_limit": 20,

	"predictor.model_url":     "",
	"predictor.model_path":    "",
	"predictor.fetch_timeout": 30 * time.Second,
	"predictor.max_retries":   3,

	"scheduler.tasks": map[string]any{
		"sql_maintenance":  map[string]any{"enabled": true, "schedule": "0 0 3 * * *"},
		"session_eviction": map[string]any{"enabled": true, "schedule": "0 */10 * * * *"},
		"history_purge":    map[string]any{"enabled": true, "schedule": "0 30 3 * * *"},
		"model_warmup":     map[string]any{"enabled": true, "schedule": "0 0 */6 * * *", "run_on_start": true},
	},

	"messages.welcome": "👋 Bonjour ! Je suis votre assistante de grossesse. Posez-moi vos questions sur " +
		"la nutrition, les symptômes, l'exercice ou l'accouchement. Tapez /help pour voir les commandes.",
	"messages.help": "Voici ce que je sais faire :\n" +
		"/start - Présentation\n" +
		"/reset - Recommencer la conversation\n" +
		"/resume - Résumé de notre conversation\n" +
		"/astuce - Un conseil santé\n" +
		"/urgence - Les signes qui doivent alerter\n" +
		"/symptome <terme> - Rechercher un symptôme\n\n" +
		"Vous pouvez aussi m'écrire directement, par exemple : « J'ai 28 ans et je suis à 20 semaines ».",
	"messages.error_general_msg":      "❌ Une erreur est survenue. Veuillez réessayer plus tard.",
	"messages.error_unauthorized_msg": "🚫 Vous n'êtes pas autorisée à utiliser cette commande.",
	"messages.reset_confirm_msg":      "🔄 Votre conversation a été réinitialisée.",
	"messages.reset_error_msg":        "❌ Impossible de réinitialiser la conversation. Veuillez réessayer.",
	"messages.symptom_usage_msg":      "ℹ️ Utilisation : /symptome <terme>, par exemple /symptome fatigue",
	"messages.symptom_not_found_fmt":  "Aucun symptôme trouvé pour « %s ».",
	"messages.stats_header_msg":       "📊 Évaluations de risque enregistrées :",
	"messages.stats_empty_msg":        "Aucune évaluation enregistrée pour le moment.",
}

// LoadConfig reads the YAML file at path (a missing file is allowed),
// applies BOT_* environment overrides on top of the defaults, and
// validates the result. A .env file in the working directory is loaded
// into the environment first when present.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			slog.Warn("Config file not found, using defaults and environment", "path", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the struct tags of every section.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
