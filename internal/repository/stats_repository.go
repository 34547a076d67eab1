package repository

import (
	"context"
	"database/sql"
	"time"
)

// StatsRepo aggregates the counts and recent activity shown on the
// dashboard.  It reads across rooms, reservations and users, so it
// lives apart from the per-table repositories.
type StatsRepo struct {
	db *sql.DB
}

// NewStatsRepo returns a StatsRepo bound to the given database.
func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// Totals carries the headline dashboard counters.
type Totals struct {
	TotalRooms         int
	OccupiedRooms      int
	ActiveReservations int
	StaffMembers       int
	CheckedInGuests    int
}

// LoadTotals gathers all counters in one round trip using scalar
// subqueries.
func (r *StatsRepo) LoadTotals(ctx context.Context) (Totals, error) {
	const q = `SELECT
	    (SELECT COUNT(*) FROM rooms),
	    (SELECT COUNT(*) FROM rooms WHERE status = 'Occupied'),
	    (SELECT COUNT(*) FROM reservations WHERE status IN ('Reserved','Checked-In')),
	    (SELECT COUNT(*) FROM users WHERE role = 'STAFF'),
	    (SELECT COUNT(*) FROM reservations WHERE status = 'Checked-In')`
	var t Totals
	err := r.db.QueryRowContext(ctx, q).Scan(
		&t.TotalRooms, &t.OccupiedRooms, &t.ActiveReservations, &t.StaffMembers, &t.CheckedInGuests)
	return t, err
}

// RecentReservation is one line of the dashboard activity feed: the
// newest reservations with their room identification joined in.  Room
// fields are nil when the room has since been deleted.
type RecentReservation struct {
	ID         uint64
	GuestName  string
	RoomNumber *uint32
	RoomType   *string
	CreatedAt  time.Time
}

// ListRecent returns the newest reservations, capped at limit.
func (r *StatsRepo) ListRecent(ctx context.Context, limit int) ([]RecentReservation, error) {
	const q = `SELECT r.id, r.guest_name, rm.number, rm.type, r.created_at
	           FROM reservations r
	           LEFT JOIN rooms rm ON rm.id = r.room_id
	           ORDER BY r.created_at DESC
	           LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RecentReservation, 0, limit)
	for rows.Next() {
		var (
			rec     RecentReservation
			roomNum sql.NullInt64
			roomTyp sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.GuestName, &roomNum, &roomTyp, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if roomNum.Valid {
			n := uint32(roomNum.Int64)
			rec.RoomNumber = &n
		}
		if roomTyp.Valid {
			t := roomTyp.String
			rec.RoomType = &t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
