// Package registry tracks every user the bot has seen and when they were last active.
package registry

import (
	"context"
	"time"

	"github.com/Proton-105/gatebot/internal/domain"
)

// Store persists user records. Implementations must be safe for concurrent use.
type Store interface {
	// Touch inserts userID or refreshes its last-seen time.
	Touch(ctx context.Context, userID int64, at time.Time) error
	// Snapshot returns a point-in-time copy of all records.
	Snapshot(ctx context.Context) ([]domain.UserRecord, error)
}
