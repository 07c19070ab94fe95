package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	apperrors "github.com/Proton-105/gatebot/internal/errors"
)

// NewAdminHandler serves /admin for the configured administrator. Replying
// to a message with /admin broadcasts that message to every known user;
// otherwise the usage statistics are returned.
func NewAdminHandler(adminID int64, users UserDirectory, fanout Broadcaster, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil {
			return nil
		}

		sender := c.Sender()
		if sender == nil || sender.ID != adminID {
			var senderID int64
			if sender != nil {
				senderID = sender.ID
			}
			log.Warn("unauthorized admin attempt", slog.Any("error", apperrors.NewUnauthorizedAdminError(senderID)))
			return reply(c, TextNotAuthorized)
		}

		ctx := RequestContext(c)

		if msg := c.Message(); msg != nil && msg.ReplyTo != nil {
			targets, err := users.IDs(ctx)
			if err != nil {
				return apperrors.NewInternalError(err)
			}

			job := fanout.Broadcast(ctx, msg.ReplyTo, targets)
			log.Info("broadcast requested by admin",
				slog.String("job_id", job.ID.String()),
				slog.Int("targets", len(targets)),
				slog.Int("failed", len(job.Failed())),
			)

			return reply(c, TextBroadcastDone)
		}

		stats, err := users.Stats(ctx)
		if err != nil {
			log.Error("failed to compute stats", slog.Any("error", err))
			return reply(c, TextStatsUnavailable)
		}

		return reply(c, stats.String())
	}
}
