package middleware_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/gatebot/internal/middleware"
	"github.com/Proton-105/gatebot/internal/testutil"
	"github.com/Proton-105/gatebot/pkg/logger"
)

func TestMetrics_PassesThroughResult(t *testing.T) {
	boom := errors.New("boom")
	h := middleware.Metrics(func(telebot.Context) error { return boom })

	assert.ErrorIs(t, h(testutil.NewMessage(1, "/help")), boom)
	assert.Nil(t, middleware.Metrics(nil))
}

func TestLogging_RecordsStatusAndCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	handler := logger.Middleware(middleware.New(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("unhealthy"))
	})))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Correlation-ID", "abc-123")
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", rec.Body.String())
	assert.Contains(t, buf.String(), `"status":503`)
	assert.Contains(t, buf.String(), `"path":"/healthz"`)
	assert.Contains(t, buf.String(), `"correlation_id":"abc-123"`)
}
