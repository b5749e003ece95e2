package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-ticket-api/internal/config"
)

// NewFixedWindow returns a Redis-backed fixed-window rate limiter. Each key
// gets cfg.Limit requests per cfg.Window; the counter and its expiry are
// maintained atomically by a small Lua script. When the limiter is disabled,
// Redis is unavailable or a script call fails, requests pass through: rate
// limiting degrades open rather than taking the API down with it.
func NewFixedWindow(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	windowScript := redis.NewScript(`
		local key = KEYS[1]
		local limit = tonumber(ARGV[1])
		local window_ms = tonumber(ARGV[2])

		local count = redis.call('INCR', key)
		if count == 1 then
			redis.call('PEXPIRE', key, window_ms)
		end
		local ttl_ms = redis.call('PTTL', key)
		if ttl_ms < 0 then
			ttl_ms = window_ms
			redis.call('PEXPIRE', key, window_ms)
		end

		local allowed = 0
		if count <= limit then
			allowed = 1
		end
		return { allowed, limit - count, ttl_ms }
	`)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			ctx := c.Request().Context()

			vals, err := windowScript.Run(ctx, rdb, []string{key},
				cfg.Limit, cfg.Window.Milliseconds()).Int64Slice()
			if err != nil || len(vals) != 3 {
				return next(c)
			}
			allowed, remaining, ttlMs := vals[0] == 1, vals[1], vals[2]
			if remaining < 0 {
				remaining = 0
			}

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !allowed {
				secs := int(math.Ceil(float64(ttlMs) / 1000.0))
				if secs < 0 {
					secs = 0
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"message":     "rate limit exceeded",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

// buildRateKey derives the Redis key for a request from the configured
// strategy. The default combines client IP and route so one noisy client
// cannot starve an endpoint for everyone else.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	route := c.Request().Method + " " + c.Path()

	parts := []string{cfg.Prefix}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "route":
		parts = append(parts, "route", route)
	default: // "ip_route"
		parts = append(parts, "ip", ip, "route", route)
	}
	return strings.Join(parts, ":")
}
