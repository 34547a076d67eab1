package model

import "time"

// Room status values.  The status reflects physical occupancy of the
// room, not future bookings: it is driven by check-in/check-out (and by
// cancellations releasing the last active reservation).  Maintenance is
// only ever set manually by an administrator.
const (
	RoomAvailable   = "Available"
	RoomOccupied    = "Occupied"
	RoomMaintenance = "Maintenance"
)

// Room represents a bookable hotel room as stored in the `rooms` table.
//
// Fields:
//  ID            – primary key identifier.
//  Number        – room number printed on the door; unique across all rooms.
//  Type          – free-text category (e.g. "Single", "Deluxe Suite").
//  PricePerNight – nightly rate in dollars.
//  Status        – Available, Occupied or Maintenance.
//  CreatedAt     – timestamp of creation.
//  UpdatedAt     – timestamp of last update.
type Room struct {
	ID            uint64    `json:"id"`            // rooms.id
	Number        uint32    `json:"number"`        // rooms.number (unique)
	Type          string    `json:"type"`          // rooms.type
	PricePerNight float64   `json:"pricePerNight"` // rooms.price_per_night
	Status        string    `json:"status"`        // rooms.status
	CreatedAt     time.Time `json:"createdAt"`     // rooms.created_at
	UpdatedAt     time.Time `json:"updatedAt"`     // rooms.updated_at
}
