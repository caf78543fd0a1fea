package model

import "time"

// Room represents a gym room and its configured maximum capacity.
type Room struct {
	Name        string    `gorm:"primaryKey;size:128" json:"name"`
	MaxCapacity int       `gorm:"not null" json:"max_capacity"`
	CreatedAt   time.Time `gorm:"not null" json:"-"`
	UpdatedAt   time.Time `gorm:"not null" json:"-"`
}
