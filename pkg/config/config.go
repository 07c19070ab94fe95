package config

import (
	"strings"
	"time"

	"github.com/Proton-105/gatebot/pkg/redis"
)

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"

	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds runtime configuration for the bot. It is read once at start
// and never mutated afterwards.
type Config struct {
	AppEnv string `mapstructure:"app_env"`

	Bot       BotConfig       `mapstructure:"bot"`
	Access    AccessConfig    `mapstructure:"access"`
	Broadcast BroadcastConfig `mapstructure:"broadcast"`
	Registry  RegistryConfig  `mapstructure:"registry"`
	Redis     redis.Config    `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Server    ServerConfig    `mapstructure:"server"`
}

type BotConfig struct {
	Token      string        `mapstructure:"token" validate:"required"`
	Mode       string        `mapstructure:"mode" validate:"oneof=polling webhook"`
	Timeout    time.Duration `mapstructure:"timeout"`
	WebhookURL string        `mapstructure:"webhook_url" validate:"required_if=Mode webhook"`
	Listen     string        `mapstructure:"listen" validate:"required_if=Mode webhook"`
}

// AccessConfig describes who may administer the bot and which channel gates it.
type AccessConfig struct {
	AdminID    int64  `mapstructure:"admin_id" validate:"required"`
	Channel    string `mapstructure:"channel" validate:"required"`
	ChannelURL string `mapstructure:"channel_url" validate:"omitempty,url"`
	FeatureURL string `mapstructure:"feature_url" validate:"required,url"`
}

// ChannelLink returns the public link to the gating channel.
func (a AccessConfig) ChannelLink() string {
	if a.ChannelURL != "" {
		return a.ChannelURL
	}

	return "https://t.me/" + strings.TrimPrefix(a.Channel, "@")
}

type BroadcastConfig struct {
	MaxRetries uint64 `mapstructure:"max_retries" validate:"lte=10"`
}

type RegistryConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=memory redis"`
	Key     string `mapstructure:"key" validate:"required"`
}

type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json text"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type SentryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn" validate:"required_if=Enabled true"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}
