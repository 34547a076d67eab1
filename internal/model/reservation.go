package model

import "time"

// Reservation status values.  A reservation is created as Reserved and
// moves forward to Checked-In and then Checked-Out, or sideways to
// Cancelled from either of the first two states.  Checked-Out and
// Cancelled are terminal.
const (
	ReservationReserved   = "Reserved"
	ReservationCheckedIn  = "Checked-In"
	ReservationCheckedOut = "Checked-Out"
	ReservationCancelled  = "Cancelled"
)

// Reservation records a guest's booking of a room for a date range as
// stored in the `reservations` table.  Many reservations may reference
// the same room over time; the room is referenced, never owned.
//
// Fields:
//  ID             – primary key identifier.
//  RoomID         – room being booked.
//  GuestName      – name of the guest (required).
//  GuestPhone     – contact phone (optional).
//  CheckIn        – requested check-in date.
//  CheckOut       – requested check-out date (strictly after CheckIn).
//  ActualCheckIn  – real arrival time; set exactly once, at check-in.
//  ActualCheckOut – real departure time; set exactly once, at check-out.
//  Status         – lifecycle status (see constants above).
//  TotalAmount    – total price in dollars; recomputed at creation,
//                   check-in and check-out, never at cancellation.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Reservation struct {
	ID             uint64     `json:"id"`                       // reservations.id
	RoomID         uint64     `json:"roomId"`                   // reservations.room_id
	GuestName      string     `json:"guestName"`                // reservations.guest_name
	GuestPhone     string     `json:"guestPhone,omitempty"`     // reservations.guest_phone (nullable)
	CheckIn        time.Time  `json:"checkIn"`                  // reservations.check_in
	CheckOut       time.Time  `json:"checkOut"`                 // reservations.check_out
	ActualCheckIn  *time.Time `json:"actualCheckIn,omitempty"`  // reservations.actual_check_in (nullable)
	ActualCheckOut *time.Time `json:"actualCheckOut,omitempty"` // reservations.actual_check_out (nullable)
	Status         string     `json:"status"`                   // reservations.status
	TotalAmount    float64    `json:"totalAmount"`              // reservations.total_amount
	CreatedAt      time.Time  `json:"createdAt"`                // reservations.created_at
	UpdatedAt      time.Time  `json:"updatedAt"`                // reservations.updated_at

	// Room is the resolved room reference for API responses.  It is
	// populated by callers from the room registry and is not a column.
	Room *Room `json:"room,omitempty"`
}

// Active reports whether the reservation still occupies its room's
// calendar: only Reserved and Checked-In reservations can conflict with
// new bookings or keep a room Occupied.
func (r *Reservation) Active() bool {
	return r.Status == ReservationReserved || r.Status == ReservationCheckedIn
}

// Terminal reports whether the reservation has reached a final state
// from which no further transition is permitted.
func (r *Reservation) Terminal() bool {
	return r.Status == ReservationCheckedOut || r.Status == ReservationCancelled
}
