package registry

import (
	"fmt"
	"time"

	"github.com/Proton-105/gatebot/internal/domain"
)

// ActiveWindow is the trailing window used for the daily-active count.
const ActiveWindow = 24 * time.Hour

// Stats summarises the registry at a point in time.
type Stats struct {
	TotalUsers  int
	DailyActive int
}

// ComputeStats counts all records and those seen within ActiveWindow before now.
func ComputeStats(records []domain.UserRecord, now time.Time) Stats {
	stats := Stats{TotalUsers: len(records)}
	for _, record := range records {
		if now.Sub(record.LastSeenAt) < ActiveWindow {
			stats.DailyActive++
		}
	}

	return stats
}

// String renders the administrator report.
func (s Stats) String() string {
	return fmt.Sprintf("📊 Bot Statistics:\n\n👥 Total Users: %d\n🔥 Daily Active Users: %d", s.TotalUsers, s.DailyActive)
}
