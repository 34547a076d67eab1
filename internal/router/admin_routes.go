package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-front-desk/internal/handler"
	"github.com/iliyamo/hotel-front-desk/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1.  Room and
// staff mutation is reserved for administrators; all routes require a
// valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, rooms *handler.RoomHandler, staff *handler.StaffHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Rooms ----
	g.POST("/rooms", rooms.Create)
	g.PUT("/rooms/:id", rooms.Update)
	g.PATCH("/rooms/:id", rooms.Update) // allow partial updates via PATCH as well
	g.DELETE("/rooms/:id", rooms.Delete)

	// ---- Staff ----
	g.GET("/users", staff.List)
	g.POST("/users", staff.Create)
	g.DELETE("/users/:id", staff.Delete)
}
