package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-front-desk/internal/config"
	"github.com/iliyamo/hotel-front-desk/internal/handler"
	"github.com/iliyamo/hotel-front-desk/internal/middleware"
)

// RegisterDesk registers the endpoints both roles use to run the front
// desk: the room listing, the reservation lifecycle and the dashboard.
// All routes require a valid JWT with the ADMIN or STAFF role.  The
// read-heavy listing and stats endpoints sit behind the Redis response
// cache; rdb may be nil, which disables caching.
func RegisterDesk(e *echo.Echo, rooms *handler.RoomHandler, reservations *handler.ReservationHandler, dashboard *handler.DashboardHandler, cacheCfg config.CacheConfig, rdb *redis.Client, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "STAFF"),
	)

	cached := middleware.ResponseCache(cacheCfg, rdb)

	// ---- Rooms (read) ----
	g.GET("/rooms", rooms.List, cached)

	// ---- Reservations ----
	g.GET("/reservations", reservations.List)
	g.POST("/reservations", reservations.Create)
	g.PUT("/reservations/:id/checkin", reservations.CheckIn)
	g.PUT("/reservations/:id/checkout", reservations.CheckOut)
	g.PUT("/reservations/:id/cancel", reservations.Cancel)

	// ---- Dashboard ----
	g.GET("/dashboard/stats", dashboard.Stats, cached)
}
