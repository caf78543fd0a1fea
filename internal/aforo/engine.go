// Package aforo implements the gym's occupancy engine: a capacity registry,
// an append-only attendance ledger, and the admission-control projection that
// derives live per-room occupancy from it.
package aforo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gym-aforo-backend/internal/model"
	"gym-aforo-backend/internal/store"
)

// AlertSink receives a notification when a room's alert level rises into
// warning or critical. Implementations must not block; the engine calls the
// sink while holding the room's lock.
type AlertSink interface {
	AlertRaised(room string, status model.OccupancyStatus)
}

// Config holds the engine's tunables.
type Config struct {
	// DefaultCapacity applies to rooms that appear in the ledger but were
	// never configured in the registry.
	DefaultCapacity int
	// DefaultRooms seeds the registry when no room has ever been
	// configured.
	DefaultRooms map[string]int
}

// Engine is the admission-control core. The store is the durable source of
// truth; the engine additionally keeps an in-memory IN-minus-OUT counter per
// room as a cache, updated under the same per-room lock as each ledger
// append so it is always derivable from the ledger.
//
// Check-in and check-out for the same room serialize on that room's lock,
// making the session check, the capacity gate and the append atomic per
// room. Calls for different rooms proceed in parallel.
type Engine struct {
	store store.Store
	cfg   Config
	sink  AlertSink // may be nil

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex

	countMu sync.RWMutex
	counts  map[string]int // raw IN − OUT per room; clamped at read time
}

// New builds an engine, rebuilds the occupancy counters from the ledger, and
// seeds the registry with the default room set if no room has ever been
// configured.
func New(ctx context.Context, s store.Store, cfg Config, sink AlertSink) (*Engine, error) {
	counts, err := s.RoomCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild occupancy counters: %w", err)
	}

	e := &Engine{
		store:  s,
		cfg:    cfg,
		sink:   sink,
		locks:  make(map[string]*sync.Mutex),
		counts: counts,
	}

	capacities, err := s.GetCapacities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load capacity registry: %w", err)
	}
	if len(capacities) == 0 {
		for room, capacity := range cfg.DefaultRooms {
			if err := s.UpsertCapacity(ctx, room, capacity); err != nil {
				return nil, fmt.Errorf("failed to seed default rooms: %w", err)
			}
		}
	}

	return e, nil
}

// roomLock returns the mutex serializing writes for one room.
func (e *Engine) roomLock(room string) *sync.Mutex {
	e.lockMu.Lock()
	defer e.lockMu.Unlock()

	mu, ok := e.locks[room]
	if !ok {
		mu = &sync.Mutex{}
		e.locks[room] = mu
	}
	return mu
}

// occupancy returns the clamped current occupancy for one room. The raw
// balance can transiently go negative from data entry errors; the clamp is a
// display rule, the ledger itself is never rewritten.
func (e *Engine) occupancy(room string) int {
	e.countMu.RLock()
	defer e.countMu.RUnlock()

	if n := e.counts[room]; n > 0 {
		return n
	}
	return 0
}

func (e *Engine) bumpCount(room string, delta int) {
	e.countMu.Lock()
	defer e.countMu.Unlock()
	e.counts[room] += delta
}

// capacityFor looks up the room's configured capacity, falling back to the
// engine's default for unconfigured rooms.
func (e *Engine) capacityFor(ctx context.Context, room string) (int, error) {
	capacity, ok, err := e.store.GetCapacity(ctx, room)
	if err != nil {
		return 0, err
	}
	if !ok {
		return e.cfg.DefaultCapacity, nil
	}
	return capacity, nil
}

// CheckIn admits a user into a room. It fails with ErrDuplicateCheckIn when
// the user already has an open session there and with ErrCapacityExceeded
// when the room is full; on success the IN event is appended to the ledger
// and returned.
func (e *Engine) CheckIn(ctx context.Context, userID, room string) (*model.AttendanceEvent, error) {
	// Trimmed before use: "u1 " and "u1" are the same member, not two
	// sessions.
	userID = strings.TrimSpace(userID)
	room = strings.TrimSpace(room)
	if userID == "" {
		return nil, ErrInvalidUser
	}
	if room == "" {
		return nil, fmt.Errorf("%w: room must not be empty", ErrValidation)
	}

	mu := e.roomLock(room)
	mu.Lock()
	defer mu.Unlock()

	last, err := e.store.LastEvent(ctx, userID, room)
	if err != nil {
		return nil, err
	}
	if last != nil && last.Direction == model.DirectionIn {
		return nil, ErrDuplicateCheckIn
	}

	capacity, err := e.capacityFor(ctx, room)
	if err != nil {
		return nil, err
	}
	current := e.occupancy(room)
	if current >= capacity {
		return nil, fmt.Errorf("%w: %q is at %d/%d", ErrCapacityExceeded, room, current, capacity)
	}

	ev, err := e.append(ctx, userID, room, model.DirectionIn)
	if err != nil {
		return nil, err
	}
	e.bumpCount(room, 1)

	e.maybeRaiseAlert(room, percentage(current, capacity), percentage(current+1, capacity), current+1, capacity)
	return ev, nil
}

// CheckOut closes a user's open session in a room. It fails with
// ErrNoOpenSession when the pair has no history and with
// ErrDuplicateCheckOut when the most recent event is already an exit.
func (e *Engine) CheckOut(ctx context.Context, userID, room string) (*model.AttendanceEvent, error) {
	userID = strings.TrimSpace(userID)
	room = strings.TrimSpace(room)
	if userID == "" {
		return nil, ErrInvalidUser
	}
	if room == "" {
		return nil, fmt.Errorf("%w: room must not be empty", ErrValidation)
	}

	mu := e.roomLock(room)
	mu.Lock()
	defer mu.Unlock()

	last, err := e.store.LastEvent(ctx, userID, room)
	if err != nil {
		return nil, err
	}
	if last == nil {
		return nil, ErrNoOpenSession
	}
	if last.Direction == model.DirectionOut {
		return nil, ErrDuplicateCheckOut
	}

	ev, err := e.append(ctx, userID, room, model.DirectionOut)
	if err != nil {
		return nil, err
	}
	e.bumpCount(room, -1)
	return ev, nil
}

// append validates and durably appends one ledger event, assigning its id
// and timestamp. Capacity and session rules are enforced by the callers
// before this point; the ledger itself never rejects on capacity.
func (e *Engine) append(ctx context.Context, userID, room string, dir model.Direction) (*model.AttendanceEvent, error) {
	if !dir.Valid() {
		return nil, fmt.Errorf("%w: direction %q", ErrValidation, dir)
	}

	ev := &model.AttendanceEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		Room:      room,
		Direction: dir,
	}
	if err := e.store.AppendEvent(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// maybeRaiseAlert notifies the sink when the room moved to a more severe
// alert level, whether from an admission or from a capacity change.
// Transitions downward are silent.
func (e *Engine) maybeRaiseAlert(room string, prevPct, nextPct, current, capacity int) {
	if e.sink == nil {
		return
	}

	prev := Classify(prevPct)
	next := Classify(nextPct)
	if levelRank(next) <= levelRank(prev) {
		return
	}

	e.sink.AlertRaised(room, model.OccupancyStatus{
		CurrentOccupancy: current,
		MaxCapacity:      capacity,
		Percentage:       nextPct,
		AlertLevel:       next,
		Available:        capacity - current,
	})
}

// SetCapacity upserts one room's capacity. Lowering it below the live
// occupancy can push the room over 100%; like an admission, the change runs
// under the room's lock and raises an alert when the level climbs.
func (e *Engine) SetCapacity(ctx context.Context, room string, capacity int) error {
	room = strings.TrimSpace(room)
	if room == "" {
		return fmt.Errorf("%w: room must not be empty", ErrValidation)
	}
	if capacity < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	mu := e.roomLock(room)
	mu.Lock()
	defer mu.Unlock()

	oldCapacity, err := e.capacityFor(ctx, room)
	if err != nil {
		return err
	}
	if err := e.store.UpsertCapacity(ctx, room, capacity); err != nil {
		return err
	}

	current := e.occupancy(room)
	e.maybeRaiseAlert(room, percentage(current, oldCapacity), percentage(current, capacity), current, capacity)
	return nil
}

// Capacities returns the current room to capacity mapping.
func (e *Engine) Capacities(ctx context.Context) (map[string]int, error) {
	return e.store.GetCapacities(ctx)
}

// RemoveRoom deletes a room from the registry. Without force it fails with
// ErrRoomInUse while the room's occupancy is nonzero. The room's ledger
// history is retained either way.
func (e *Engine) RemoveRoom(ctx context.Context, room string, force bool) error {
	room = strings.TrimSpace(room)
	mu := e.roomLock(room)
	mu.Lock()
	defer mu.Unlock()

	if current := e.occupancy(room); current > 0 && !force {
		return fmt.Errorf("%w: %q has %d people inside", ErrRoomInUse, room, current)
	}
	return e.store.DeleteRoom(ctx, room)
}

// OccupancyNow returns the clamped occupancy for every room that appears in
// the ledger, plus registered rooms with no events at zero. Rooms removed
// from the registry keep counting while their events remain.
func (e *Engine) OccupancyNow(ctx context.Context) (map[string]int, error) {
	capacities, err := e.store.GetCapacities(ctx)
	if err != nil {
		return nil, err
	}

	e.countMu.RLock()
	out := make(map[string]int, len(e.counts)+len(capacities))
	for room, n := range e.counts {
		if n < 0 {
			n = 0
		}
		out[room] = n
	}
	e.countMu.RUnlock()

	for room := range capacities {
		if _, ok := out[room]; !ok {
			out[room] = 0
		}
	}
	return out, nil
}

// Status combines occupancy and capacity for every registered room. Rooms
// absent from the registry are omitted rather than given a fabricated
// capacity; OccupancyNow still reports them.
func (e *Engine) Status(ctx context.Context) (map[string]model.OccupancyStatus, error) {
	capacities, err := e.store.GetCapacities(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make(map[string]model.OccupancyStatus, len(capacities))
	for room, capacity := range capacities {
		current := e.occupancy(room)
		pct := percentage(current, capacity)
		statuses[room] = model.OccupancyStatus{
			CurrentOccupancy: current,
			MaxCapacity:      capacity,
			Percentage:       pct,
			AlertLevel:       Classify(pct),
			Available:        capacity - current,
		}
	}
	return statuses, nil
}

// GlobalSummary aggregates Status across all registered rooms.
func (e *Engine) GlobalSummary(ctx context.Context) (model.GlobalSummary, error) {
	statuses, err := e.Status(ctx)
	if err != nil {
		return model.GlobalSummary{}, err
	}
	return Summarize(statuses), nil
}

// RecentEvents returns up to limit ledger events, most recent first.
func (e *Engine) RecentEvents(ctx context.Context, limit int) ([]model.AttendanceEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	return e.store.RecentEvents(ctx, limit)
}

// ListEvents exposes filtered ledger reads for recent-activity views.
func (e *Engine) ListEvents(ctx context.Context, f store.EventFilter) ([]model.AttendanceEvent, error) {
	return e.store.ListEvents(ctx, f)
}

// PurgeAll clears the ledger and resets the counters. Administrative reset
// tooling only; not part of the operational flow. It stalls every room's
// writers first, so an in-flight admission cannot bump a counter after the
// reset and leave it underivable from the (now empty) ledger.
func (e *Engine) PurgeAll(ctx context.Context) error {
	// Holding lockMu also blocks writers for rooms seen for the first
	// time mid-purge.
	e.lockMu.Lock()
	defer e.lockMu.Unlock()
	for _, mu := range e.locks {
		mu.Lock()
	}
	defer func() {
		for _, mu := range e.locks {
			mu.Unlock()
		}
	}()

	e.countMu.Lock()
	defer e.countMu.Unlock()

	if err := e.store.PurgeEvents(ctx); err != nil {
		return err
	}
	e.counts = make(map[string]int)
	return nil
}
