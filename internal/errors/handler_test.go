package errors

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Proton-105/gatebot/pkg/logger"
)

func TestHandler_Handle(t *testing.T) {
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)

	msg, retryable := h.Handle(context.Background(), nil)
	assert.Empty(t, msg)
	assert.False(t, retryable)

	msg, retryable = h.Handle(context.Background(), NewUnauthorizedAdminError(7))
	assert.Equal(t, "You are not authorized to use this command.", msg)
	assert.False(t, retryable)

	msg, retryable = h.Handle(context.Background(), NewRecipientError(7, errors.New("blocked")))
	assert.Equal(t, defaultUserMessage, msg)
	assert.False(t, retryable)

	msg, retryable = h.Handle(context.Background(), NewVerificationError("@gate", 7, errors.New("timeout")))
	assert.NotEmpty(t, msg)
	assert.True(t, retryable)

	msg, _ = h.Handle(context.Background(), errors.New("unexpected"))
	assert.Equal(t, defaultUserMessage, msg)
}

func TestHandler_LogsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewTextHandler(&buf, nil)), false)

	ctx := logger.WithCorrelationID(context.Background(), "req-1")
	h.Handle(ctx, NewInternalError(errors.New("boom")))

	assert.Contains(t, buf.String(), "correlation_id=req-1")
	assert.Contains(t, buf.String(), "code=E200")
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestHandler_WrappedAppError(t *testing.T) {
	h := NewHandler(nil, false)

	wrapped := errors.Join(errors.New("context"), NewUnauthorizedAdminError(9))
	msg, _ := h.Handle(context.Background(), wrapped)
	assert.Equal(t, "You are not authorized to use this command.", msg)
}

func TestAppError_UnwrapsCause(t *testing.T) {
	cause := errors.New("Forbidden: bot was blocked by the user")
	err := NewRecipientError(5, cause)

	assert.ErrorIs(t, err, cause)
	assert.NoError(t, (*AppError)(nil).Unwrap())
}
