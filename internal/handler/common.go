package handler // handler implements the HTTP endpoints of the front-desk API

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the authenticated user's ID from echo.Context and
// converts it to uint64.  The JWT middleware stores the claim as
// whatever type the token decoder produced, so several representations
// are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getUsername returns the authenticated username from context, or the
// empty string when the claim is absent.
func getUsername(c echo.Context) string {
	if s, ok := c.Get("username").(string); ok {
		return s
	}
	return ""
}

// pathID parses the :id path parameter as a positive uint64.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id != 0
}
