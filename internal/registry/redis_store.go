package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	appredis "github.com/Proton-105/gatebot/pkg/redis"

	"github.com/Proton-105/gatebot/internal/domain"
)

// RedisStore keeps records in a single Redis hash: field is the user id,
// value is the last-seen time in unix nanoseconds.
type RedisStore struct {
	client *appredis.Client
	key    string
	log    *slog.Logger
}

// NewRedisStore creates a Redis-backed Store under the given hash key.
func NewRedisStore(client *appredis.Client, key string, log *slog.Logger) *RedisStore {
	if log == nil {
		log = slog.Default()
	}

	return &RedisStore{
		client: client,
		key:    key,
		log:    log,
	}
}

func (s *RedisStore) Touch(ctx context.Context, userID int64, at time.Time) error {
	field := strconv.FormatInt(userID, 10)
	if err := s.client.HSet(ctx, s.key, field, at.UnixNano()); err != nil {
		return fmt.Errorf("touch user %d: %w", userID, err)
	}

	return nil
}

// Snapshot reads the whole hash with one HGETALL, so the result reflects a
// single point in time on the server.
func (s *RedisStore) Snapshot(ctx context.Context) ([]domain.UserRecord, error) {
	values, err := s.client.HGetAll(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	records := make([]domain.UserRecord, 0, len(values))
	for field, raw := range values {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			s.log.Warn("skipping malformed registry field", slog.String("field", field))
			continue
		}

		nanos, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.log.Warn("skipping malformed registry value", slog.Int64("user_id", id), slog.String("value", raw))
			continue
		}

		records = append(records, domain.UserRecord{ID: id, LastSeenAt: time.Unix(0, nanos)})
	}

	return records, nil
}
