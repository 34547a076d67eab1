package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/hotel-front-desk/internal/handler"    // handlers implementing the endpoints
	"github.com/iliyamo/hotel-front-desk/internal/middleware" // JWT + role middleware
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health
// check, used by load balancers and monitoring to verify the service is
// up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints and the
// identity endpoint.  Unauthenticated operations live under /v1/auth;
// /v1/me requires a valid access token of either role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token and returns a new pair.
	g.POST("/refresh", a.Refresh)
	// Logout accepts a JSON body with `refresh_token` and invalidates
	// it; no JWT is required so an expired session can still log out.
	g.POST("/logout", a.Logout)
	// Bootstrap endpoint for fresh deployments; no-op once an admin
	// exists.
	g.POST("/seed-admin", a.SeedAdmin)

	auth := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "STAFF"),
	)
	auth.GET("/me", a.Me)
}
