package store

import "time"

// EventFilter narrows ListEvents results. Zero-value fields are ignored.
type EventFilter struct {
	Room   string
	UserID string
	Since  *time.Time
	Until  *time.Time
}
