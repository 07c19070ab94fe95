package errors

import (
	"context"
	"errors"
	"log/slog"

	"github.com/getsentry/sentry-go"

	"github.com/Proton-105/gatebot/pkg/logger"
	"github.com/Proton-105/gatebot/pkg/metrics"
)

const codeUnknown = "unknown"

// Handler logs application errors, forwards severe ones to Sentry and picks the user-facing reply.
type Handler struct {
	log           *slog.Logger
	sentryEnabled bool
}

func NewHandler(log *slog.Logger, sentryEnabled bool) *Handler {
	if log == nil {
		log = slog.Default()
	}

	return &Handler{
		log:           log,
		sentryEnabled: sentryEnabled,
	}
}

// Handle reports err and returns the message to show the user and whether
// the action may be retried. Errors that are not an *AppError are treated
// as high severity internal failures.
func (h *Handler) Handle(ctx context.Context, err error) (string, bool) {
	if err == nil {
		return "", false
	}
	if ctx == nil {
		ctx = context.Background()
	}

	appErr := classify(err)
	correlationID := logger.CorrelationIDFromContext(ctx)

	attrs := []any{
		slog.String("code", appErr.Code),
		slog.String("severity", string(appErr.Severity)),
		slog.Bool("retryable", appErr.Retryable),
		slog.Any("error", err),
	}
	if correlationID != "" {
		attrs = append(attrs, slog.String("correlation_id", correlationID))
	}

	level := slog.LevelError
	if appErr.Severity == SeverityLow || appErr.Severity == SeverityMedium {
		level = slog.LevelWarn
	}
	h.log.Log(ctx, level, "handler error", attrs...)
	metrics.RecordError(appErr.Code, string(appErr.Severity))

	if h.sentryEnabled && (appErr.Severity == SeverityCritical || appErr.Severity == SeverityHigh) {
		h.capture(err, appErr, correlationID)
	}

	userMessage := appErr.UserMessage
	if userMessage == "" {
		userMessage = defaultUserMessage
	}

	return userMessage, appErr.Retryable
}

func classify(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil {
		return appErr
	}

	return &AppError{
		Code:        codeUnknown,
		Message:     err.Error(),
		UserMessage: defaultUserMessage,
		Severity:    SeverityHigh,
		cause:       err,
	}
}

func (h *Handler) capture(err error, appErr *AppError, correlationID string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("code", appErr.Code)
		scope.SetTag("severity", string(appErr.Severity))
		if correlationID != "" {
			scope.SetTag("correlation_id", correlationID)
		}

		sentry.CaptureException(err)
	})
}
