package middleware

import (
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/gatebot/internal/bot/event"
	"github.com/Proton-105/gatebot/internal/bot/handlers"
	"github.com/Proton-105/gatebot/pkg/metrics"
)

// Metrics measures execution time and status for bot handlers, labelled by
// the routed event kind so raw user text never becomes a label value.
func Metrics(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		status := "ok"
		if err != nil {
			status = "error"
		}

		metrics.RecordCommand(event.Classify(c).String(), status, time.Since(start))

		return err
	}
}
