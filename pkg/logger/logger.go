package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Proton-105/gatebot/pkg/config"
)

// New builds the application logger. Records go to stdout and, when
// cfg.File is set, to a size-rotated file. Sensitive attributes are masked
// before any sink sees them. With sentryEnabled, error records are also
// forwarded to Sentry. The returned closer releases the log file.
func New(cfg config.LogConfig, sentryEnabled bool) (*slog.Logger, io.Closer) {
	var (
		out    io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotator)
		closer = rotator
	}

	var sinks []slog.Handler
	if sentryEnabled {
		sinks = append(sinks, slogsentry.Option{Level: slog.LevelError}.NewSentryHandler())
	}

	return slog.New(newHandler(out, cfg, sinks...)), closer
}

// newHandler builds the console/file handler, fans records out to any extra
// sinks and masks sensitive values ahead of all of them.
func newHandler(out io.Writer, cfg config.LogConfig, sinks ...slog.Handler) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	if len(sinks) > 0 {
		handler = slogmulti.Fanout(append([]slog.Handler{handler}, sinks...)...)
	}

	return NewMaskingHandler(handler)
}

// ParseLevel maps a config level name onto slog levels, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
