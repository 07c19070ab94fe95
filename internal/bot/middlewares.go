package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/gatebot/internal/bot/event"
	"github.com/Proton-105/gatebot/internal/bot/handlers"
	errors "github.com/Proton-105/gatebot/internal/errors"
	"github.com/Proton-105/gatebot/pkg/logger"
)

const fallbackUserMessage = "⚠️ Something went wrong. Please try again later."

// UserToucher records that a user interacted with the bot.
type UserToucher interface {
	Touch(ctx context.Context, userID int64) error
}

// RecoveryMiddleware catches panics, reports them via the centralized handler, and notifies the user.
func RecoveryMiddleware(log *slog.Logger, errHandler *errors.Handler) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered in handler", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))

					userMsg := fallbackUserMessage
					if errHandler != nil {
						appErr := errors.NewInternalError(fmt.Errorf("panic recovered: %v", r))
						if msg, _ := errHandler.Handle(handlers.RequestContext(c), appErr); msg != "" {
							userMsg = msg
						}
					}

					if c != nil {
						if sendErr := c.Send(userMsg); sendErr != nil {
							log.Error("failed to notify user about panic", slog.Any("error", sendErr))
						}
					}

					err = nil
				}
			}()

			return next(c)
		}
	}
}

// ErrorHandlingMiddleware centralizes error reporting and user messaging for handler failures.
func ErrorHandlingMiddleware(errHandler *errors.Handler) handlers.Middleware {
	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			userMsg := fallbackUserMessage
			if errHandler != nil {
				if msg, _ := errHandler.Handle(handlers.RequestContext(c), err); msg != "" {
					userMsg = msg
				}
			}

			if c != nil {
				_ = c.Send(userMsg)
			}

			return nil
		}
	}
}

// LoggingMiddleware attaches a correlation id to the update and logs its outcome.
func LoggingMiddleware(log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			start := time.Now()
			correlationID := logger.NewCorrelationID()
			handlers.SetRequestContext(c, logger.WithCorrelationID(context.Background(), correlationID))

			userID := int64(0)
			if c != nil && c.Sender() != nil {
				userID = c.Sender().ID
			}
			kind := event.Classify(c).String()

			log.Debug("handling update",
				slog.Int64("user_id", userID),
				slog.String("kind", kind),
				slog.String("correlation_id", correlationID),
			)
			err := next(c)
			log.Info("handled update",
				slog.Int64("user_id", userID),
				slog.String("kind", kind),
				slog.String("correlation_id", correlationID),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)

			return err
		}
	}
}

// RegistryMiddleware records the sender in the user registry before the
// handler runs. A store failure is logged by the registry and never blocks
// the update.
func RegistryMiddleware(users UserToucher) handlers.Middleware {
	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			if users != nil && c != nil && c.Sender() != nil {
				_ = users.Touch(handlers.RequestContext(c), c.Sender().ID)
			}

			return next(c)
		}
	}
}
