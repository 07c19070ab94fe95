// Package config provides configuration loading and validation utilities.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var defaults = map[string]any{
	"bot.token":               "",
	"bot.mode":                ModePolling,
	"bot.timeout":             "10s",
	"bot.webhook_url":         "",
	"bot.listen":              ":8443",
	"access.admin_id":         0,
	"access.channel":          "",
	"access.channel_url":      "",
	"access.feature_url":      "",
	"broadcast.max_retries":   2,
	"registry.backend":        BackendMemory,
	"registry.key":            "gatebot:users",
	"redis.addr":              "localhost:6379",
	"redis.password":          "",
	"redis.db":                0,
	"redis.pool_size":         10,
	"redis.min_idle_conns":    1,
	"redis.pool_timeout":      "4s",
	"redis.idle_timeout":      "5m",
	"redis.max_retries":       3,
	"redis.min_retry_backoff": "8ms",
	"redis.max_retry_backoff": "512ms",
	"log.level":               "info",
	"log.format":              "json",
	"log.file":                "",
	"log.max_size_mb":         100,
	"log.max_backups":         3,
	"log.max_age_days":        28,
	"sentry.enabled":          false,
	"sentry.dsn":              "",
	"server.addr":             ":9090",
	"server.shutdown_timeout": "10s",
}

// legacyEnv maps config keys to the environment names used by earlier
// deployments of the bot.
var legacyEnv = map[string][]string{
	"bot.token":          {"TELEGRAM_BOT_TOKEN"},
	"bot.webhook_url":    {"WEBHOOK_URL"},
	"access.admin_id":    {"ADMIN_ID"},
	"access.channel":     {"CHANNEL_USERNAME"},
	"access.feature_url": {"WEBAPP_URL"},
}

// Load reads configuration from an optional YAML file and environment
// variables, validates it, and returns the resulting Config.
func Load(env string) (*Config, *viper.Viper, error) {
	// Env files are optional; the first file to set a variable wins.
	for _, file := range []string{".env.local", ".env"} {
		_ = godotenv.Load(file)
	}

	if env == "" {
		env = os.Getenv("APP_ENV")
	}
	if env == "" {
		env = "development"
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName(env)
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range legacyEnv {
		bind := append([]string{key, strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, names...)
		if err := v.BindEnv(bind...); err != nil {
			return nil, nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AppEnv = env

	if err := Validate(&cfg); err != nil {
		return nil, nil, err
	}

	return &cfg, v, nil
}

// Validate checks struct constraints on cfg.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	// A numeric chat id has no public t.me link to derive.
	if _, err := strconv.ParseInt(cfg.Access.Channel, 10, 64); err == nil && cfg.Access.ChannelURL == "" {
		return fmt.Errorf("validate config: access.channel_url is required when access.channel is a numeric id (%s)", cfg.Access.Channel)
	}

	return nil
}

// Watch logs changes to the loaded config file. Values are not reloaded;
// a restart is required to apply them.
func Watch(v *viper.Viper, log *slog.Logger) {
	if v == nil || v.ConfigFileUsed() == "" {
		return
	}
	if log == nil {
		log = slog.Default()
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Warn("config file changed, restart to apply",
			slog.String("file", e.Name),
			slog.String("op", e.Op.String()),
		)
	})
	v.WatchConfig()
}
