package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-front-desk/internal/repository"
)

type fakeStats struct {
	totals repository.Totals
	recent []repository.RecentReservation
	err    error
}

func (f *fakeStats) LoadTotals(ctx context.Context) (repository.Totals, error) {
	return f.totals, f.err
}

func (f *fakeStats) ListRecent(ctx context.Context, limit int) ([]repository.RecentReservation, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func getStats(t *testing.T, src StatsSource) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	h := NewDashboardHandler(src)
	e := echo.New()
	e.GET("/v1/dashboard/stats", h.Stats)

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard/stats", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body map[string]json.RawMessage
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body %q: %v", rec.Body.String(), err)
		}
	}
	return rec, body
}

func TestDashboardStats(t *testing.T) {
	roomNum := uint32(204)
	roomType := "Suite"
	when := time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)
	src := &fakeStats{
		totals: repository.Totals{
			TotalRooms:         12,
			OccupiedRooms:      5,
			ActiveReservations: 7,
			StaffMembers:       3,
			CheckedInGuests:    5,
		},
		recent: []repository.RecentReservation{
			{ID: 9, GuestName: "Alice Smith", RoomNumber: &roomNum, RoomType: &roomType, CreatedAt: when},
			{ID: 8, GuestName: "Bob Jones", CreatedAt: when},
		},
	}

	rec, body := getStats(t, src)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	for field, want := range map[string]string{
		"totalRooms":               "12",
		"activeReservations":       "7",
		"staffMembers":             "3",
		"currentlyCheckedInGuests": "5",
		"occupancyRate":            "41.7", // 5 of 12, one decimal
	} {
		if got := string(body[field]); got != want {
			t.Errorf("%s = %s, want %s", field, got, want)
		}
	}

	var acts []struct {
		ID      uint64 `json:"id"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body["recentActivities"], &acts); err != nil {
		t.Fatalf("decode recentActivities: %v", err)
	}
	if len(acts) != 2 {
		t.Fatalf("recentActivities has %d entries, want 2", len(acts))
	}
	if want := "New reservation by Alice Smith for Room 204 (Suite) on 6/3/2024."; acts[0].Message != want {
		t.Errorf("message = %q, want %q", acts[0].Message, want)
	}
	// Deleted room: the feed line degrades to guest and date only.
	if want := "New reservation by Bob Jones on 6/3/2024."; acts[1].Message != want {
		t.Errorf("message = %q, want %q", acts[1].Message, want)
	}
}

func TestDashboardStatsEmptyHotel(t *testing.T) {
	rec, body := getStats(t, &fakeStats{})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := string(body["occupancyRate"]); got != "0" {
		t.Errorf("occupancyRate with zero rooms = %s, want 0", got)
	}
	if got := string(body["recentActivities"]); got != "[]" {
		t.Errorf("recentActivities = %s, want []", got)
	}
}

func TestDashboardStatsRepoFailure(t *testing.T) {
	rec, _ := getStats(t, &fakeStats{err: errors.New("boom")})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
