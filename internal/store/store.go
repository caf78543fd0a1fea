package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gym-aforo-backend/internal/model"
)

// Store defines the persistence operations the occupancy engine depends on.
// The ledger is append-only: events are inserted or bulk-purged, never
// updated. All business validation (admission control, session state) lives
// above this layer.
type Store interface {
	DB() *gorm.DB

	AppendEvent(ctx context.Context, ev *model.AttendanceEvent) error
	ListEvents(ctx context.Context, f EventFilter) ([]model.AttendanceEvent, error)
	LastEvent(ctx context.Context, userID, room string) (*model.AttendanceEvent, error)
	RecentEvents(ctx context.Context, limit int) ([]model.AttendanceEvent, error)
	RoomCounts(ctx context.Context) (map[string]int, error)
	PurgeEvents(ctx context.Context) error

	GetCapacities(ctx context.Context) (map[string]int, error)
	GetCapacity(ctx context.Context, room string) (int, bool, error)
	UpsertCapacity(ctx context.Context, room string, capacity int) error
	DeleteRoom(ctx context.Context, room string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// AppendEvent inserts one ledger event.
func (s *gormStore) AppendEvent(ctx context.Context, ev *model.AttendanceEvent) error {
	if err := s.db.WithContext(ctx).Create(ev).Error; err != nil {
		return fmt.Errorf("failed to append attendance event: %w", err)
	}
	return nil
}

// ListEvents returns ledger events matching the filter, ordered by timestamp
// ascending.
func (s *gormStore) ListEvents(ctx context.Context, f EventFilter) ([]model.AttendanceEvent, error) {
	q := s.db.WithContext(ctx).Model(&model.AttendanceEvent{})
	if f.Room != "" {
		q = q.Where("room = ?", f.Room)
	}
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Since != nil {
		q = q.Where("timestamp >= ?", *f.Since)
	}
	if f.Until != nil {
		q = q.Where("timestamp <= ?", *f.Until)
	}

	var events []model.AttendanceEvent
	if err := q.Order("timestamp ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list attendance events: %w", err)
	}
	return events, nil
}

// LastEvent returns the most recent event for a (user, room) pair, or nil if
// the pair has no history.
func (s *gormStore) LastEvent(ctx context.Context, userID, room string) (*model.AttendanceEvent, error) {
	var ev model.AttendanceEvent
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND room = ?", userID, room).
		Order("timestamp DESC").
		First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch last event for user %q in room %q: %w", userID, room, err)
	}
	return &ev, nil
}

// RecentEvents returns up to limit events, most recent first.
func (s *gormStore) RecentEvents(ctx context.Context, limit int) ([]model.AttendanceEvent, error) {
	var events []model.AttendanceEvent
	if err := s.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent events: %w", err)
	}
	return events, nil
}

// RoomCounts aggregates the raw IN minus OUT balance per room across the
// whole ledger. The balance is not clamped here; the engine clamps at read
// time.
func (s *gormStore) RoomCounts(ctx context.Context) (map[string]int, error) {
	type aggRow struct {
		Room  string
		Total int
	}
	var rows []aggRow
	if err := s.db.WithContext(ctx).
		Model(&model.AttendanceEvent{}).
		Select("room, SUM(CASE WHEN direction = ? THEN 1 ELSE -1 END) as total", model.DirectionIn).
		Group("room").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate room counts: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Room] = r.Total
	}
	return counts, nil
}

// PurgeEvents deletes every ledger event. Administrative reset tooling only.
func (s *gormStore) PurgeEvents(ctx context.Context) error {
	if err := s.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&model.AttendanceEvent{}).Error; err != nil {
		return fmt.Errorf("failed to purge attendance events: %w", err)
	}
	return nil
}

// GetCapacities returns the full room name to capacity mapping.
func (s *gormStore) GetCapacities(ctx context.Context) (map[string]int, error) {
	var rooms []model.Room
	if err := s.db.WithContext(ctx).Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch rooms: %w", err)
	}

	capacities := make(map[string]int, len(rooms))
	for _, r := range rooms {
		capacities[r.Name] = r.MaxCapacity
	}
	return capacities, nil
}

// GetCapacity returns a single room's capacity; the second return value is
// false when the room is not configured.
func (s *gormStore) GetCapacity(ctx context.Context, room string) (int, bool, error) {
	var r model.Room
	err := s.db.WithContext(ctx).First(&r, "name = ?", room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to fetch room %q: %w", room, err)
	}
	return r.MaxCapacity, true, nil
}

// UpsertCapacity creates or updates one room's capacity. Per-room upserts
// avoid the write races a whole-map replacement would have under concurrent
// admin edits.
func (s *gormStore) UpsertCapacity(ctx context.Context, room string, capacity int) error {
	r := model.Room{Name: room, MaxCapacity: capacity}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"max_capacity", "updated_at"}),
	}).Create(&r).Error; err != nil {
		return fmt.Errorf("failed to upsert capacity for room %q: %w", room, err)
	}
	return nil
}

// DeleteRoom removes a room from the registry. Ledger events referencing the
// room are retained (soft reference).
func (s *gormStore) DeleteRoom(ctx context.Context, room string) error {
	if err := s.db.WithContext(ctx).Delete(&model.Room{Name: room}).Error; err != nil {
		return fmt.Errorf("failed to delete room %q: %w", room, err)
	}
	return nil
}
