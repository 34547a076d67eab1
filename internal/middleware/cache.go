package middleware

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-front-desk/internal/config"
)

// captureWriter duplicates the response body into a buffer while
// forwarding it to the client, so a successful response can be stored
// in the cache after the handler ran.  Bodies above the limit are
// forwarded but not buffered.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	limit  int
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.buf.Len()+len(b) <= cw.limit {
		cw.buf.Write(b)
	} else {
		cw.buf.Reset()
		cw.limit = 0 // oversized; stop buffering for this response
	}
	return cw.ResponseWriter.Write(b)
}

// ResponseCache returns a middleware that serves GET responses from
// Redis for the configured TTL.  It is applied to the read-heavy,
// freshness-tolerant endpoints (room listing, dashboard stats); entries
// are keyed by route and query string and simply age out — lifecycle
// writes do not invalidate, the short TTL bounds staleness.  With
// caching disabled or Redis unavailable every request falls through to
// the handler.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			key := cfg.Prefix + ":" + c.Request().URL.Path
			if q := c.Request().URL.RawQuery; q != "" {
				key += "?" + q
			}

			ctx := c.Request().Context()
			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, body)
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = cw
			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK && cw.buf.Len() > 0 {
				// Best effort; a failed SET only costs the next caller a miss.
				rdb.Set(ctx, key, cw.buf.Bytes(), cfg.TTL)
			}
			return nil
		}
	}
}
