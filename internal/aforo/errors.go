package aforo

import "errors"

// Business-rule failures returned by the engine. All are caller-correctable
// and map to client errors at the transport layer; none are retried here.
var (
	// ErrInvalidCapacity is returned when a capacity value is negative.
	ErrInvalidCapacity = errors.New("capacity must be a non-negative integer")

	// ErrInvalidUser is returned when a user identifier is empty.
	ErrInvalidUser = errors.New("user id must not be empty")

	// ErrValidation is returned for malformed ledger input, such as an
	// empty room name.
	ErrValidation = errors.New("invalid attendance event")

	// ErrDuplicateCheckIn is returned when a user already has an open
	// session in the room.
	ErrDuplicateCheckIn = errors.New("user already checked in to this room")

	// ErrDuplicateCheckOut is returned when the user's most recent event
	// for the room is already an exit.
	ErrDuplicateCheckOut = errors.New("user already checked out of this room")

	// ErrNoOpenSession is returned on check-out when the user has no
	// history at all for the room.
	ErrNoOpenSession = errors.New("no open session for this room")

	// ErrCapacityExceeded is returned when a room is already at its
	// configured maximum. It must surface to the end user ("sala llena"),
	// never be dropped.
	ErrCapacityExceeded = errors.New("room is at maximum capacity")

	// ErrRoomInUse is returned when removing a room whose current
	// occupancy is nonzero without the force flag.
	ErrRoomInUse = errors.New("room has nonzero occupancy")
)
