package booking

import (
	"context"
	"math"
	"time"
)

// Overlaps reports whether two half-open date intervals [aStart, aEnd)
// and [bStart, bEnd) intersect.  The single inequality pair subsumes
// every overlap shape: one range starting inside the other, ending
// inside the other, or fully enclosing it.  Exact boundary adjacency
// (one range's end equals the other's start) is not an overlap, which
// is what allows same-day room turnover.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Nights returns the number of nights between check-in and check-out as
// the ceiling of the difference in days.  Callers must have validated
// that checkOut is after checkIn; a non-positive result means the range
// is invalid.
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// StartOfDay truncates a timestamp to midnight UTC.  Actual stay
// duration is billed at calendar-day granularity, so both actual
// timestamps are normalized through this before computing nights.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsRangeFree reports whether the candidate range [start, end) is free
// of conflicts on the given room.  It scans every active (Reserved or
// Checked-In) reservation for the room rather than doing a single
// lookup, since several non-overlapping future bookings may coexist on
// one room.  Checked-Out and Cancelled reservations never conflict.
// excludeID, when non-zero, skips one reservation from consideration.
//
// Zero-night ranges are rejected by the engine before this runs; the
// checker itself only answers the overlap question.
func (e *Engine) IsRangeFree(ctx context.Context, roomID uint64, start, end time.Time, excludeID uint64) (bool, error) {
	active, err := e.reservations.ListActiveByRoom(ctx, roomID, excludeID)
	if err != nil {
		return false, err
	}
	for i := range active {
		if Overlaps(active[i].CheckIn, active[i].CheckOut, start, end) {
			return false, nil
		}
	}
	return true, nil
}

// hasOtherActive reports whether any active reservation other than
// excludeID still references the room.
func (e *Engine) hasOtherActive(ctx context.Context, roomID, excludeID uint64) (bool, error) {
	active, err := e.reservations.ListActiveByRoom(ctx, roomID, excludeID)
	if err != nil {
		return false, err
	}
	return len(active) > 0, nil
}
