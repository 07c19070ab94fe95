// Package broadcast relays one administrator-selected message to every known user.
package broadcast

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	telebot "gopkg.in/telebot.v3"

	apperrors "github.com/Proton-105/gatebot/internal/errors"
	"github.com/Proton-105/gatebot/pkg/metrics"
)

// Relayer copies an existing message into another chat. *telebot.Bot implements it.
type Relayer interface {
	Copy(to telebot.Recipient, msg telebot.Editable, opts ...interface{}) (*telebot.Message, error)
}

// Outcome is the delivery result for one recipient. Err is nil on success.
type Outcome struct {
	UserID int64
	Err    error
}

// Job describes one finished broadcast pass.
type Job struct {
	ID         uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []Outcome
}

// Succeeded returns the recipients that received the message.
func (j *Job) Succeeded() []int64 {
	return j.filter(func(o Outcome) bool { return o.Err == nil })
}

// Failed returns the recipients that could not be reached.
func (j *Job) Failed() []int64 {
	return j.filter(func(o Outcome) bool { return o.Err != nil })
}

func (j *Job) filter(keep func(Outcome) bool) []int64 {
	if j == nil {
		return nil
	}

	ids := make([]int64, 0, len(j.Outcomes))
	for _, outcome := range j.Outcomes {
		if keep(outcome) {
			ids = append(ids, outcome.UserID)
		}
	}
	return ids
}

// Fanout delivers a payload to each target in turn.
type Fanout struct {
	relayer    Relayer
	maxRetries uint64
	log        *slog.Logger
}

// NewFanout creates a Fanout. maxRetries bounds extra attempts for a
// recipient rejected by flood control; other failures are not retried.
func NewFanout(relayer Relayer, maxRetries uint64, log *slog.Logger) *Fanout {
	if log == nil {
		log = slog.Default()
	}

	return &Fanout{
		relayer:    relayer,
		maxRetries: maxRetries,
		log:        log,
	}
}

// Broadcast relays payload to every id in targets. A failing recipient is
// logged and recorded, and the pass continues with the next one. The pass
// always covers the full target list, even if ctx is cancelled.
func (f *Fanout) Broadcast(ctx context.Context, payload telebot.Editable, targets []int64) *Job {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithoutCancel(ctx)

	job := &Job{
		ID:        uuid.New(),
		StartedAt: time.Now(),
		Outcomes:  make([]Outcome, 0, len(targets)),
	}

	log := f.log.With(slog.String("broadcast_id", job.ID.String()))
	log.InfoContext(ctx, "broadcast started", slog.Int("targets", len(targets)))

	for _, userID := range targets {
		err := f.relay(ctx, payload, userID)
		if err != nil {
			log.ErrorContext(ctx, "failed to relay broadcast",
				slog.Int64("user_id", userID),
				slog.Any("error", err),
			)
		}
		job.Outcomes = append(job.Outcomes, Outcome{UserID: userID, Err: err})
	}

	job.FinishedAt = time.Now()
	succeeded, failed := len(job.Succeeded()), len(job.Failed())
	metrics.RecordBroadcast(succeeded, failed, job.FinishedAt.Sub(job.StartedAt))

	log.InfoContext(ctx, "broadcast finished",
		slog.Int("succeeded", succeeded),
		slog.Int("failed", failed),
		slog.Duration("duration", job.FinishedAt.Sub(job.StartedAt)),
	)

	return job
}

func (f *Fanout) relay(ctx context.Context, payload telebot.Editable, userID int64) error {
	if f.relayer == nil {
		return apperrors.NewRecipientError(userID, errNoRelayer)
	}

	return apperrors.WithRetry(ctx, f.maxRetries, func() error {
		_, err := f.relayer.Copy(recipient(userID), payload)
		return apperrors.FromRelay(userID, err)
	})
}

type recipient int64

func (r recipient) Recipient() string { return strconv.FormatInt(int64(r), 10) }
