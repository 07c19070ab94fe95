package domain

import "time"

// UserRecord is a known bot user and the last time any update arrived from them.
type UserRecord struct {
	ID         int64     `json:"id"`
	LastSeenAt time.Time `json:"last_seen_at"`
}
