package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-front-desk/internal/booking"
	"github.com/iliyamo/hotel-front-desk/internal/model"
)

// RoomRepo encapsulates all database queries related to rooms.  It
// implements the booking.RoomStore contract so the lifecycle engine can
// read rooms and flip their occupancy status through it.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the provided DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// DB exposes the underlying handle for callers that need to open
// transactions spanning multiple repositories.
func (r *RoomRepo) DB() *sql.DB { return r.db }

const roomColumns = "id, number, type, price_per_night, status, created_at, updated_at"

func scanRoom(row *sql.Row) (*model.Room, error) {
	var rm model.Room
	err := row.Scan(&rm.ID, &rm.Number, &rm.Type, &rm.PricePerNight, &rm.Status, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

// GetRoom fetches a room by its ID.  It returns booking.ErrRoomNotFound
// when no row exists.
func (r *RoomRepo) GetRoom(ctx context.Context, id uint64) (*model.Room, error) {
	const q = "SELECT " + roomColumns + " FROM rooms WHERE id = ?"
	return scanRoom(r.db.QueryRowContext(ctx, q, id))
}

// List returns the full room inventory ordered by room number.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	const q = "SELECT " + roomColumns + " FROM rooms ORDER BY number"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.Number, &rm.Type, &rm.PricePerNight, &rm.Status, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// Create inserts a new room.  On success the ID and timestamp fields of
// the passed record are populated from the stored row.  A duplicate
// room number surfaces as ErrRoomNumberExists.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	const q = "INSERT INTO rooms (number, type, price_per_night, status) VALUES (?,?,?,?)"
	res, err := r.db.ExecContext(ctx, q, rm.Number, rm.Type, rm.PricePerNight, rm.Status)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrRoomNumberExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	stored, err := r.GetRoom(ctx, rm.ID)
	if err != nil {
		return err
	}
	*rm = *stored
	return nil
}

// Update writes every mutable column of the room.  Callers load the
// existing row first and merge partial changes into it.  A duplicate
// room number surfaces as ErrRoomNumberExists.
func (r *RoomRepo) Update(ctx context.Context, rm *model.Room) error {
	const q = "UPDATE rooms SET number=?, type=?, price_per_night=?, status=? WHERE id=?"
	if _, err := r.db.ExecContext(ctx, q, rm.Number, rm.Type, rm.PricePerNight, rm.Status, rm.ID); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrRoomNumberExists
		}
		return err
	}
	stored, err := r.GetRoom(ctx, rm.ID)
	if err != nil {
		return err
	}
	*rm = *stored
	return nil
}

// UpdateRoomStatus sets only the status column.  Used by the lifecycle
// engine when occupancy changes.
func (r *RoomRepo) UpdateRoomStatus(ctx context.Context, id uint64, status string) error {
	const q = "UPDATE rooms SET status=? WHERE id=?"
	_, err := r.db.ExecContext(ctx, q, status, id)
	return err
}

// Delete removes a room.  It refuses with ErrConflict while any active
// (Reserved or Checked-In) reservation still references the room, so
// upcoming stays are never orphaned.  booking.ErrRoomNotFound is
// returned when the room does not exist.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	const countQ = `SELECT COUNT(*) FROM reservations
	                WHERE room_id = ? AND status IN ('Reserved','Checked-In')`
	var active int
	if err := r.db.QueryRowContext(ctx, countQ, id).Scan(&active); err != nil {
		return err
	}
	if active > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM rooms WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return booking.ErrRoomNotFound
	}
	return nil
}
