package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-front-desk/internal/config"
)

// NewTokenBucket returns a rate limiting middleware backed by a Redis
// token bucket.  Buckets are keyed per client IP and route so a flood
// against the reservation endpoints cannot starve the dashboard.  The
// bucket state is maintained atomically by a Lua script.  When the
// limiter is disabled, or Redis is unavailable (nil client or a script
// error at request time), requests pass through unthrottled: the
// limiter protects the service, it must never take it down.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	script := redis.NewScript(`
		local key = KEYS[1]
		local now_ms = tonumber(ARGV[1])
		local capacity = tonumber(ARGV[2])
		local refill = tonumber(ARGV[3])
		local interval_ms = tonumber(ARGV[4])
		local ttl_s = tonumber(ARGV[5])

		local state = redis.call('HMGET', key, 'tokens', 'refilled_ms')
		local tokens = tonumber(state[1])
		local refilled = tonumber(state[2])
		if tokens == nil or refilled == nil then
			tokens = capacity
			refilled = now_ms
		end

		local intervals = math.floor(math.max(0, now_ms - refilled) / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + intervals * refill)
			refilled = refilled + intervals * interval_ms
		end

		local allowed = 0
		local retry_ms = 0
		if tokens > 0 then
			allowed = 1
			tokens = tokens - 1
		else
			retry_ms = math.max(0, interval_ms - (now_ms - refilled))
		end

		redis.call('HMSET', key, 'tokens', tokens, 'refilled_ms', refilled)
		redis.call('EXPIRE', key, ttl_s)
		return { allowed, retry_ms }
	`)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("%s:%s:%s", cfg.Prefix, c.RealIP(), c.Path())
			args := []interface{}{
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL / time.Second),
			}
			vals, err := script.Run(c.Request().Context(), rdb, []string{key}, args...).Int64Slice()
			if err != nil || len(vals) != 2 {
				return next(c)
			}
			if vals[0] != 1 {
				secs := int(math.Ceil(float64(vals[1]) / 1000.0))
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}
