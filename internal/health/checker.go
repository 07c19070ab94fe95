// Package health reports the reachability of the bot's external dependencies.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/telebot.v3"
)

const statusOK = "OK"

// Checkable represents a component that can report its health status.
type Checkable interface {
	HealthCheck(ctx context.Context) error
}

// CheckFunc adapts a function to Checkable.
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

// Checker aggregates health checks for multiple components.
type Checker struct {
	mu      sync.RWMutex
	log     *slog.Logger
	checks  map[string]Checkable
	timeout time.Duration
}

// NewChecker instantiates a Checker with the provided logger.
func NewChecker(log *slog.Logger) *Checker {
	if log == nil {
		log = slog.Default()
	}

	return &Checker{
		log:     log,
		checks:  make(map[string]Checkable),
		timeout: 5 * time.Second,
	}
}

// AddCheck registers a checkable component by name.
func (c *Checker) AddCheck(name string, check Checkable) {
	if name == "" || check == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// Check runs all registered health checks and returns their statuses.
func (c *Checker) Check(ctx context.Context) map[string]string {
	c.mu.RLock()
	checks := make(map[string]Checkable, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	results := make(map[string]string, len(checks))
	for name, check := range checks {
		if err := check.HealthCheck(ctx); err != nil {
			results[name] = err.Error()
			c.log.Error("health check failed", slog.String("component", name), slog.Any("error", err))
			continue
		}

		results[name] = statusOK
	}

	return results
}

type report struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// ServeHTTP renders the check results as JSON, answering 503 when any component is unhealthy.
func (c *Checker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
	defer cancel()

	results := c.Check(ctx)

	resp := report{Status: "ok", Components: results}
	code := http.StatusOK
	for _, status := range results {
		if status != statusOK {
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		c.log.Warn("failed to write health report", slog.Any("error", err))
	}
}

// Pinger abstracts the subset of redis.Client used for health checks.
type Pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisChecker verifies connectivity to a Redis instance.
type RedisChecker struct {
	pinger Pinger
}

// NewRedisChecker constructs a RedisChecker.
func NewRedisChecker(pinger Pinger) *RedisChecker {
	return &RedisChecker{pinger: pinger}
}

// HealthCheck issues a PING command against Redis.
func (c *RedisChecker) HealthCheck(ctx context.Context) error {
	if c == nil || c.pinger == nil {
		return redis.ErrClosed
	}
	return c.pinger.Ping(ctx).Err()
}

// TelegramChecker verifies that the Telegram bot API is reachable.
type TelegramChecker struct {
	bot *telebot.Bot
}

// NewTelegramChecker constructs a TelegramChecker.
func NewTelegramChecker(bot *telebot.Bot) *TelegramChecker {
	return &TelegramChecker{bot: bot}
}

// HealthCheck calls getMe on the bot API.
func (c *TelegramChecker) HealthCheck(_ context.Context) error {
	if c == nil || c.bot == nil || c.bot.Me == nil {
		return errors.New("telegram bot is not initialized or disconnected")
	}

	_, err := c.bot.Raw("getMe", nil)
	return err
}
