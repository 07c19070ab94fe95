package logger

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

const maskedValue = "***"

var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"token":         {},
	"bot_token":     {},
	"secret":        {},
	"api_key":       {},
	"authorization": {},
	"dsn":           {},
}

// botTokenPattern matches a bot API token, which telebot embeds in request
// URLs and therefore in transport errors.
var botTokenPattern = regexp.MustCompile(`\d{5,}:[A-Za-z0-9_-]{30,}`)

// MaskingHandler wraps a slog.Handler and masks sensitive attributes before delegating.
// Attributes named like credentials are replaced outright; bot tokens found
// inside any string or error value are redacted in place.
type MaskingHandler struct {
	next slog.Handler
}

// NewMaskingHandler creates a handler that masks sensitive fields before passing records downstream.
func NewMaskingHandler(next slog.Handler) *MaskingHandler {
	return &MaskingHandler{next: next}
}

func (h *MaskingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *MaskingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		masked[i] = maskAttr(attr)
	}
	return &MaskingHandler{next: h.next.WithAttrs(masked)}
}

func (h *MaskingHandler) WithGroup(name string) slog.Handler {
	return &MaskingHandler{next: h.next.WithGroup(name)}
}

func (h *MaskingHandler) Handle(ctx context.Context, record slog.Record) error {
	masked := slog.NewRecord(record.Time, record.Level, redactTokens(record.Message), record.PC)

	record.Attrs(func(attr slog.Attr) bool {
		masked.AddAttrs(maskAttr(attr))
		return true
	})

	return h.next.Handle(ctx, masked)
}

func maskAttr(attr slog.Attr) slog.Attr {
	if _, ok := sensitiveKeys[strings.ToLower(attr.Key)]; ok {
		return slog.String(attr.Key, maskedValue)
	}

	value := attr.Value.Resolve()
	switch value.Kind() {
	case slog.KindGroup:
		group := value.Group()
		masked := make([]slog.Attr, len(group))
		for i, nested := range group {
			masked[i] = maskAttr(nested)
		}
		return slog.Attr{Key: attr.Key, Value: slog.GroupValue(masked...)}
	case slog.KindString:
		return slog.String(attr.Key, redactTokens(value.String()))
	case slog.KindAny:
		if err, ok := value.Any().(error); ok && err != nil {
			if msg := err.Error(); botTokenPattern.MatchString(msg) {
				return slog.Any(attr.Key, &redactedError{msg: redactTokens(msg), cause: err})
			}
		}
	}

	return slog.Attr{Key: attr.Key, Value: value}
}

func redactTokens(s string) string {
	return botTokenPattern.ReplaceAllString(s, maskedValue)
}

// redactedError hides tokens in the message while keeping the original
// error reachable for errors.Is/As and for Sentry's exception chain.
type redactedError struct {
	msg   string
	cause error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.cause }
