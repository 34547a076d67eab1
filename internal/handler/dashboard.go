package handler

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-front-desk/internal/repository"
)

// StatsSource provides the dashboard aggregates.  It is satisfied by
// repository.StatsRepo.
type StatsSource interface {
	LoadTotals(ctx context.Context) (repository.Totals, error)
	ListRecent(ctx context.Context, limit int) ([]repository.RecentReservation, error)
}

// DashboardHandler serves the aggregate statistics panel.
type DashboardHandler struct {
	Repo StatsSource
}

// NewDashboardHandler constructs a DashboardHandler and panics if the
// source is nil.
func NewDashboardHandler(stats StatsSource) *DashboardHandler {
	if stats == nil {
		panic("nil stats source passed to NewDashboardHandler")
	}
	return &DashboardHandler{Repo: stats}
}

// recentActivity is one line of the activity feed.
type recentActivity struct {
	ID        uint64    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type statsResp struct {
	TotalRooms               int              `json:"totalRooms"`
	ActiveReservations       int              `json:"activeReservations"`
	StaffMembers             int              `json:"staffMembers"`
	OccupancyRate            float64          `json:"occupancyRate"`
	CurrentlyCheckedInGuests int              `json:"currentlyCheckedInGuests"`
	RecentActivities         []recentActivity `json:"recentActivities"`
}

// Stats handles GET /v1/dashboard/stats.  Occupancy rate is the share
// of rooms currently Occupied, as a percentage with one decimal.
func (h *DashboardHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	totals, err := h.Repo.LoadTotals(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	rate := 0.0
	if totals.TotalRooms > 0 {
		rate = math.Round(float64(totals.OccupiedRooms)/float64(totals.TotalRooms)*1000) / 10
	}

	recent, err := h.Repo.ListRecent(ctx, 3)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	activities := make([]recentActivity, 0, len(recent))
	for _, r := range recent {
		msg := fmt.Sprintf("New reservation by %s", r.GuestName)
		if r.RoomNumber != nil {
			msg += fmt.Sprintf(" for Room %d", *r.RoomNumber)
			if r.RoomType != nil {
				msg += fmt.Sprintf(" (%s)", *r.RoomType)
			}
		}
		msg += fmt.Sprintf(" on %s.", r.CreatedAt.Format("1/2/2006"))
		activities = append(activities, recentActivity{ID: r.ID, Message: msg, Timestamp: r.CreatedAt})
	}

	return c.JSON(http.StatusOK, statsResp{
		TotalRooms:               totals.TotalRooms,
		ActiveReservations:       totals.ActiveReservations,
		StaffMembers:             totals.StaffMembers,
		OccupancyRate:            rate,
		CurrentlyCheckedInGuests: totals.CheckedInGuests,
		RecentActivities:         activities,
	})
}
