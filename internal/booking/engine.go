package booking

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/hotel-front-desk/internal/model"
)

// RoomStore is the slice of the room registry the engine needs: fetch a
// room for pricing and existence checks, and flip its occupancy status.
// Missing rooms must surface as errors matching ErrRoomNotFound.
type RoomStore interface {
	GetRoom(ctx context.Context, id uint64) (*model.Room, error)
	UpdateRoomStatus(ctx context.Context, id uint64, status string) error
}

// ReservationStore persists reservation records.  ListActiveByRoom
// returns every Reserved or Checked-In reservation for a room,
// excluding excludeID when it is non-zero.  Missing reservations must
// surface as errors matching ErrReservationNotFound.
type ReservationStore interface {
	GetReservation(ctx context.Context, id uint64) (*model.Reservation, error)
	CreateReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservation(ctx context.Context, r *model.Reservation) error
	ListActiveByRoom(ctx context.Context, roomID, excludeID uint64) ([]model.Reservation, error)
}

// Engine orchestrates the reservation lifecycle.  All four operations
// (Create, CheckIn, CheckOut, Cancel) run under a per-room mutex so the
// availability check and the subsequent write cannot interleave with a
// concurrent booking of the same room.  That closes the
// check-then-insert race within a single process; a multi-instance
// deployment would additionally need a database-level exclusion
// constraint over room and date range.
type Engine struct {
	rooms        RoomStore
	reservations ReservationStore

	mu        sync.Mutex
	roomLocks map[uint64]*sync.Mutex

	// now is swappable in tests; defaults to time.Now in UTC.
	now func() time.Time
}

// NewEngine constructs an Engine over the given stores and panics when
// a dependency is missing.
func NewEngine(rooms RoomStore, reservations ReservationStore) *Engine {
	if rooms == nil || reservations == nil {
		panic("nil store passed to NewEngine")
	}
	return &Engine{
		rooms:        rooms,
		reservations: reservations,
		roomLocks:    make(map[uint64]*sync.Mutex),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// lockRoom acquires the mutex dedicated to one room and returns its
// unlock function.  Locks are created lazily and never discarded; the
// map grows with the room inventory, which is small by nature.
func (e *Engine) lockRoom(roomID uint64) func() {
	e.mu.Lock()
	l, ok := e.roomLocks[roomID]
	if !ok {
		l = &sync.Mutex{}
		e.roomLocks[roomID] = l
	}
	e.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// CreateParams carries the caller's intent for a new reservation.
type CreateParams struct {
	RoomID     uint64
	GuestName  string
	GuestPhone string
	CheckIn    time.Time
	CheckOut   time.Time
}

// Create validates the requested range, confirms the room exists and
// the range is free of conflicting active reservations, and persists a
// new reservation in status Reserved with totalAmount = booked nights ×
// the room's nightly price.  Room status is deliberately untouched
// here: a future booking does not make the room physically occupied,
// and the room stays bookable for other non-overlapping ranges.
func (e *Engine) Create(ctx context.Context, p CreateParams) (*model.Reservation, error) {
	room, err := e.rooms.GetRoom(ctx, p.RoomID)
	if err != nil {
		return nil, err
	}
	if !p.CheckOut.After(p.CheckIn) {
		return nil, fmt.Errorf("%w: check-out date must be after check-in date", ErrInvalidRange)
	}
	nights := Nights(p.CheckIn, p.CheckOut)
	if nights < 1 {
		return nil, fmt.Errorf("%w: duration of stay must be at least 1 night", ErrInvalidRange)
	}

	unlock := e.lockRoom(p.RoomID)
	defer unlock()

	free, err := e.IsRangeFree(ctx, p.RoomID, p.CheckIn, p.CheckOut, 0)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, ErrConflict
	}

	res := &model.Reservation{
		RoomID:      p.RoomID,
		GuestName:   strings.TrimSpace(p.GuestName),
		GuestPhone:  strings.TrimSpace(p.GuestPhone),
		CheckIn:     p.CheckIn,
		CheckOut:    p.CheckOut,
		Status:      model.ReservationReserved,
		TotalAmount: float64(nights) * room.PricePerNight,
	}
	if err := e.reservations.CreateReservation(ctx, res); err != nil {
		return nil, err
	}
	res.Room = room
	return res, nil
}

// CheckIn moves a Reserved reservation to Checked-In.  It stamps the
// actual arrival time, recomputes the total from the originally booked
// range at the room's *current* nightly price (re-pricing on arrival is
// intentional), and marks the room Occupied.
func (e *Engine) CheckIn(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := e.reservations.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := e.lockRoom(res.RoomID)
	defer unlock()

	// Re-read under the room lock so a concurrent transition on the
	// same reservation cannot slip between the first read and here.
	res, err = e.reservations.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status != model.ReservationReserved {
		return nil, fmt.Errorf("%w: only 'Reserved' bookings can be checked in (current status: %s)", ErrInvalidTransition, res.Status)
	}
	room, err := e.rooms.GetRoom(ctx, res.RoomID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	res.Status = model.ReservationCheckedIn
	res.ActualCheckIn = &now
	res.TotalAmount = float64(Nights(res.CheckIn, res.CheckOut)) * room.PricePerNight
	if err := e.reservations.UpdateReservation(ctx, res); err != nil {
		return nil, err
	}

	if err := e.rooms.UpdateRoomStatus(ctx, room.ID, model.RoomOccupied); err != nil {
		// The transition is already persisted; report the inconsistency
		// rather than failing the checked-in guest.
		log.Printf("booking: reservation %d checked in but room %d status update failed: %v", res.ID, room.ID, err)
	} else {
		room.Status = model.RoomOccupied
	}
	res.Room = room
	return res, nil
}

// CheckOut moves a Checked-In reservation to Checked-Out.  The total is
// recomputed from the *actual* stay: both actual timestamps are
// normalized to midnight and the day difference billed, with a floor of
// one night so a same-day departure is never free.  The room is then
// released to Available unless another active reservation still holds
// it.
func (e *Engine) CheckOut(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := e.reservations.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := e.lockRoom(res.RoomID)
	defer unlock()

	res, err = e.reservations.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status != model.ReservationCheckedIn {
		return nil, fmt.Errorf("%w: only 'Checked-In' bookings can be checked out (current status: %s)", ErrInvalidTransition, res.Status)
	}
	if res.ActualCheckIn == nil {
		// Unreachable through the state machine; a Checked-In row
		// always carries its arrival time.
		return nil, fmt.Errorf("%w: actual check-in time is not recorded", ErrInvalidState)
	}
	room, err := e.rooms.GetRoom(ctx, res.RoomID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	res.Status = model.ReservationCheckedOut
	res.ActualCheckOut = &now

	nights := Nights(StartOfDay(*res.ActualCheckIn), StartOfDay(now))
	if nights <= 0 {
		nights = 1 // same-day checkout still bills one night
	}
	res.TotalAmount = float64(nights) * room.PricePerNight
	if err := e.reservations.UpdateReservation(ctx, res); err != nil {
		return nil, err
	}

	e.recomputeRoomStatus(ctx, room, res.ID)
	res.Room = room
	return res, nil
}

// Cancel moves a Reserved or Checked-In reservation to Cancelled.  The
// total amount is left untouched (there is no cancellation-fee logic)
// and the room is released exactly as in CheckOut.
func (e *Engine) Cancel(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := e.reservations.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := e.lockRoom(res.RoomID)
	defer unlock()

	res, err = e.reservations.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !res.Active() {
		return nil, fmt.Errorf("%w: cannot cancel a reservation that is already %s", ErrInvalidTransition, strings.ToLower(res.Status))
	}
	room, err := e.rooms.GetRoom(ctx, res.RoomID)
	if err != nil {
		return nil, err
	}

	res.Status = model.ReservationCancelled
	if err := e.reservations.UpdateReservation(ctx, res); err != nil {
		return nil, err
	}

	e.recomputeRoomStatus(ctx, room, res.ID)
	res.Room = room
	return res, nil
}

// recomputeRoomStatus re-derives a room's occupancy after a reservation
// left the active set.  When no other active reservation references the
// room it becomes Available; otherwise another guest's booking still
// holds it and the status is left alone.  Failures here never fail the
// already-persisted transition; they are logged as inconsistencies.
func (e *Engine) recomputeRoomStatus(ctx context.Context, room *model.Room, excludeID uint64) {
	held, err := e.hasOtherActive(ctx, room.ID, excludeID)
	if err != nil {
		log.Printf("booking: room %d status recompute failed after reservation %d: %v", room.ID, excludeID, err)
		return
	}
	if held {
		return
	}
	if err := e.rooms.UpdateRoomStatus(ctx, room.ID, model.RoomAvailable); err != nil {
		log.Printf("booking: room %d release failed after reservation %d: %v", room.ID, excludeID, err)
		return
	}
	room.Status = model.RoomAvailable
}
