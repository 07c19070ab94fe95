package registry

import (
	"context"
	"log/slog"
	"time"

	"github.com/Proton-105/gatebot/internal/domain"
	"github.com/Proton-105/gatebot/pkg/metrics"
)

// Registry is the set of known users. It is owned by the bot instance and
// shared by every handler; all state lives in the underlying Store.
type Registry struct {
	store Store
	now   func() time.Time
	log   *slog.Logger
}

// Option customises a Registry.
type Option func(*Registry)

// WithClock overrides the time source used for last-seen stamps.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a Registry over store. A nil store falls back to memory.
func New(store Store, log *slog.Logger, opts ...Option) *Registry {
	if store == nil {
		store = NewMemoryStore()
	}
	if log == nil {
		log = slog.Default()
	}

	r := &Registry{
		store: store,
		now:   time.Now,
		log:   log,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Touch records activity from userID at the current time.
func (r *Registry) Touch(ctx context.Context, userID int64) error {
	if err := r.store.Touch(ctx, userID, r.now()); err != nil {
		r.log.Error("failed to record user activity", slog.Int64("user_id", userID), slog.Any("error", err))
		return err
	}

	return nil
}

// Snapshot returns a copy of all records taken at call time.
func (r *Registry) Snapshot(ctx context.Context) ([]domain.UserRecord, error) {
	return r.store.Snapshot(ctx)
}

// IDs returns the identifiers of all known users at call time. Users added
// after the call are not included.
func (r *Registry) IDs(ctx context.Context) ([]int64, error) {
	records, err := r.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(records))
	for i, record := range records {
		ids[i] = record.ID
	}

	return ids, nil
}

// Stats computes total and daily-active counts as of now.
func (r *Registry) Stats(ctx context.Context) (Stats, error) {
	records, err := r.store.Snapshot(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := ComputeStats(records, r.now())
	metrics.SetRegistryUsers(stats.TotalUsers, stats.DailyActive)

	return stats, nil
}
