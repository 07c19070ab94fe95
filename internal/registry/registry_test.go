package registry

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/gatebot/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestRegistry_TouchRecordsFirstSeen(t *testing.T) {
	clock := &fixedClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	reg := New(NewMemoryStore(), testLogger(), WithClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, reg.Touch(ctx, 100))

	records, err := reg.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(100), records[0].ID)
	assert.Equal(t, clock.Now(), records[0].LastSeenAt)
}

func TestRegistry_TouchIsIdempotent(t *testing.T) {
	clock := &fixedClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	reg := New(nil, testLogger(), WithClock(clock.Now))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, reg.Touch(ctx, 7))
		clock.Advance(time.Minute)
	}

	records, err := reg.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 4, 0, 0, time.UTC), records[0].LastSeenAt)
}

func TestRegistry_ConcurrentTouches(t *testing.T) {
	reg := New(NewMemoryStore(), testLogger())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = reg.Touch(ctx, id)
			}
		}(int64(i))
	}

	snapshotDone := make(chan struct{})
	go func() {
		defer close(snapshotDone)
		for i := 0; i < 20; i++ {
			_, _ = reg.IDs(ctx)
		}
	}()

	wg.Wait()
	<-snapshotDone

	ids, err := reg.IDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 50)
}

func TestRegistry_IDsIsDetachedSnapshot(t *testing.T) {
	reg := New(NewMemoryStore(), testLogger())
	ctx := context.Background()

	require.NoError(t, reg.Touch(ctx, 1))
	require.NoError(t, reg.Touch(ctx, 2))

	ids, err := reg.IDs(ctx)
	require.NoError(t, err)

	require.NoError(t, reg.Touch(ctx, 3))

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	assert.Equal(t, []int64{1, 2}, ids)
}

func TestComputeStats(t *testing.T) {
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		records  []domain.UserRecord
		expected Stats
	}{
		{
			name:     "empty registry",
			records:  nil,
			expected: Stats{},
		},
		{
			name: "one recent one stale",
			records: []domain.UserRecord{
				{ID: 1, LastSeenAt: now.Add(-2 * time.Hour)},
				{ID: 2, LastSeenAt: now.Add(-30 * time.Hour)},
			},
			expected: Stats{TotalUsers: 2, DailyActive: 1},
		},
		{
			name: "window boundary is exclusive",
			records: []domain.UserRecord{
				{ID: 1, LastSeenAt: now.Add(-ActiveWindow)},
				{ID: 2, LastSeenAt: now.Add(-ActiveWindow + time.Second)},
			},
			expected: Stats{TotalUsers: 2, DailyActive: 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ComputeStats(tc.records, now))
		})
	}
}

func TestRegistry_Stats(t *testing.T) {
	clock := &fixedClock{now: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	reg := New(NewMemoryStore(), testLogger(), WithClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, reg.Touch(ctx, 2))
	clock.Advance(28 * time.Hour)
	require.NoError(t, reg.Touch(ctx, 1))
	clock.Advance(2 * time.Hour)

	stats, err := reg.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalUsers: 2, DailyActive: 1}, stats)
	assert.Equal(t, "📊 Bot Statistics:\n\n👥 Total Users: 2\n🔥 Daily Active Users: 1", stats.String())
}
