package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-front-desk/internal/booking"
	"github.com/iliyamo/hotel-front-desk/internal/model"
)

// ReservationRepo provides persistence for reservations.  It implements
// the booking.ReservationStore contract used by the lifecycle engine
// and additionally offers a joined listing for the API.  All timestamp
// columns are stored in UTC (the DSN pins loc=UTC).
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given
// database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, room_id, guest_name, guest_phone, check_in, check_out,
	actual_check_in, actual_check_out, status, total_amount, created_at, updated_at`

// scanReservation reads one reservation row into a model struct,
// unwrapping the nullable phone and actual-time columns.
func scanReservation(scan func(dest ...any) error) (*model.Reservation, error) {
	var (
		res       model.Reservation
		phone     sql.NullString
		actualIn  sql.NullTime
		actualOut sql.NullTime
	)
	err := scan(&res.ID, &res.RoomID, &res.GuestName, &phone, &res.CheckIn, &res.CheckOut,
		&actualIn, &actualOut, &res.Status, &res.TotalAmount, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		res.GuestPhone = phone.String
	}
	if actualIn.Valid {
		t := actualIn.Time.UTC()
		res.ActualCheckIn = &t
	}
	if actualOut.Valid {
		t := actualOut.Time.UTC()
		res.ActualCheckOut = &t
	}
	return &res, nil
}

// GetReservation fetches a reservation by ID.  It returns
// booking.ErrReservationNotFound when no row exists.
func (r *ReservationRepo) GetReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = "SELECT " + reservationColumns + " FROM reservations WHERE id = ?"
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// CreateReservation inserts a new reservation and populates the
// generated ID and timestamp fields on the passed record.
func (r *ReservationRepo) CreateReservation(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations
	           (room_id, guest_name, guest_phone, check_in, check_out, status, total_amount)
	           VALUES (?,?,?,?,?,?,?)`
	var phone any
	if res.GuestPhone != "" {
		phone = res.GuestPhone
	}
	result, err := r.db.ExecContext(ctx, q,
		res.RoomID, res.GuestName, phone, res.CheckIn, res.CheckOut, res.Status, res.TotalAmount)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the stored row to populate timestamps and defaults.
	stored, err := r.GetReservation(ctx, res.ID)
	if err != nil {
		return err
	}
	*res = *stored
	return nil
}

// UpdateReservation writes the mutable lifecycle columns: status,
// actual times and total amount.  The requested date range and guest
// identity never change after creation.
func (r *ReservationRepo) UpdateReservation(ctx context.Context, res *model.Reservation) error {
	const q = `UPDATE reservations
	           SET status=?, actual_check_in=?, actual_check_out=?, total_amount=?
	           WHERE id=?`
	var actualIn, actualOut any
	if res.ActualCheckIn != nil {
		actualIn = res.ActualCheckIn.UTC()
	}
	if res.ActualCheckOut != nil {
		actualOut = res.ActualCheckOut.UTC()
	}
	_, err := r.db.ExecContext(ctx, q, res.Status, actualIn, actualOut, res.TotalAmount, res.ID)
	return err
}

// ListActiveByRoom returns every Reserved or Checked-In reservation for
// a room, skipping excludeID when non-zero.  The engine's availability
// checker scans this set for date-range overlaps.
func (r *ReservationRepo) ListActiveByRoom(ctx context.Context, roomID, excludeID uint64) ([]model.Reservation, error) {
	const q = "SELECT " + reservationColumns + ` FROM reservations
	           WHERE room_id = ? AND id <> ? AND status IN ('Reserved','Checked-In')`
	rows, err := r.db.QueryContext(ctx, q, roomID, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// ListWithRooms returns all reservations newest-first with the room
// reference expanded (number, type and nightly price), the shape the
// reservations page renders.  Reservations whose room was deleted keep
// a nil Room.
func (r *ReservationRepo) ListWithRooms(ctx context.Context) ([]model.Reservation, error) {
	const q = `SELECT r.id, r.room_id, r.guest_name, r.guest_phone, r.check_in, r.check_out,
	                  r.actual_check_in, r.actual_check_out, r.status, r.total_amount,
	                  r.created_at, r.updated_at,
	                  rm.id, rm.number, rm.type, rm.price_per_night, rm.status
	           FROM reservations r
	           LEFT JOIN rooms rm ON rm.id = r.room_id
	           ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		var (
			res       model.Reservation
			phone     sql.NullString
			actualIn  sql.NullTime
			actualOut sql.NullTime
			roomID    sql.NullInt64
			roomNum   sql.NullInt64
			roomType  sql.NullString
			roomPrice sql.NullFloat64
			roomStat  sql.NullString
		)
		if err := rows.Scan(&res.ID, &res.RoomID, &res.GuestName, &phone, &res.CheckIn, &res.CheckOut,
			&actualIn, &actualOut, &res.Status, &res.TotalAmount, &res.CreatedAt, &res.UpdatedAt,
			&roomID, &roomNum, &roomType, &roomPrice, &roomStat); err != nil {
			return nil, err
		}
		if phone.Valid {
			res.GuestPhone = phone.String
		}
		if actualIn.Valid {
			t := actualIn.Time.UTC()
			res.ActualCheckIn = &t
		}
		if actualOut.Valid {
			t := actualOut.Time.UTC()
			res.ActualCheckOut = &t
		}
		if roomID.Valid {
			res.Room = &model.Room{
				ID:            uint64(roomID.Int64),
				Number:        uint32(roomNum.Int64),
				Type:          roomType.String,
				PricePerNight: roomPrice.Float64,
				Status:        roomStat.String,
			}
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
