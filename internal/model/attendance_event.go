package model

import "time"

// Direction indicates whether an attendance event is an entry or an exit.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// Valid reports whether d is one of the two recognized directions.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// AttendanceEvent is one entry in the occupancy ledger. Events are
// append-only: they are never updated after creation, only bulk-purged by
// administrative tooling. Room is a soft reference; a room may be removed
// from the registry while its events remain.
type AttendanceEvent struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
	UserID    string    `gorm:"index;size:64;not null" json:"user_id"`
	Room      string    `gorm:"index;size:128;not null" json:"room"`
	Direction Direction `gorm:"size:3;not null" json:"direction"`
}
