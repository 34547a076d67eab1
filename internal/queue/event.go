// Package queue defines message payloads exchanged over the message broker.
package queue

// Reservation lifecycle event types carried in LifecycleEvent.Type.
const (
	EventReservationCreated    = "reservation.created"
	EventReservationCheckedIn  = "reservation.checked_in"
	EventReservationCheckedOut = "reservation.checked_out"
	EventReservationCancelled  = "reservation.cancelled"
)

// LifecycleEvent is published after every successful reservation
// transition.  It carries enough information for downstream consumers
// (audit log, notifications, analytics) to act without querying the
// primary database.
type LifecycleEvent struct {
	Type          string  `json:"type"`
	ReservationID uint64  `json:"reservation_id"`
	RoomID        uint64  `json:"room_id"`
	RoomNumber    uint32  `json:"room_number"`
	RoomStatus    string  `json:"room_status"`
	GuestName     string  `json:"guest_name"`
	Status        string  `json:"status"`
	CheckIn       string  `json:"check_in"`
	CheckOut      string  `json:"check_out"`
	TotalAmount   float64 `json:"total_amount"`
	OccurredAt    string  `json:"occurred_at"`
	Actor         string  `json:"actor"` // username of the staff member who triggered it
}
