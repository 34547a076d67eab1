// Package booking implements the reservation lifecycle: creating
// bookings, checking guests in and out, cancelling, and keeping room
// occupancy status and billing totals consistent while doing so.
// Sentinel errors defined here let the HTTP layer translate each
// failure into a distinct status code with errors.Is.
package booking

import "errors"

// ErrRoomNotFound is returned when a referenced room does not exist.
// Stores must return an error matching this sentinel for missing rooms.
var ErrRoomNotFound = errors.New("room not found")

// ErrReservationNotFound is returned when a referenced reservation does
// not exist.  Stores must return an error matching this sentinel for
// missing reservations.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrInvalidRange is returned when the requested check-out date is not
// strictly after the check-in date, or the stay computes to fewer than
// one night.
var ErrInvalidRange = errors.New("invalid date range")

// ErrConflict is returned when the requested range overlaps an active
// reservation for the same room.
var ErrConflict = errors.New("room is not available for the selected dates")

// ErrInvalidTransition is returned when the requested lifecycle
// operation is not legal from the reservation's current status.  The
// wrapped message always names the current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrInvalidState signals a broken internal invariant (e.g. a
// Checked-In reservation with no recorded actual check-in time).  It
// indicates a defect, not a user error.
var ErrInvalidState = errors.New("inconsistent reservation state")
