package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

// ErrNoLimiterStore is returned when rate limiting is requested without a Redis client.
var ErrNoLimiterStore = errors.New("redis client is nil")

// RateLimiter counts requests per resource and caller in fixed Redis windows.
// Disabled limiters always allow.
type RateLimiter struct {
	rdb      *redis.Client
	disabled bool
}

// NewRateLimiter builds a limiter. Development and test environments are not throttled.
func NewRateLimiter(rdb *redis.Client, env string) *RateLimiter {
	switch env {
	case "", "test", "development":
		return &RateLimiter{rdb: rdb, disabled: true}
	}
	return &RateLimiter{rdb: rdb}
}

// Allow reports whether another request for resource/id fits in the window.
func (l *RateLimiter) Allow(ctx context.Context, resource, id string, limit int, window time.Duration) (bool, error) {
	if l.disabled {
		return true, nil
	}
	if l.rdb == nil {
		return false, ErrNoLimiterStore
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	cnt, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		l.rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit), nil
}

// Handler returns a Fiber middleware enforcing limit requests per window.
// It keys by authenticated profile (if set) otherwise by remote IP.
func (l *RateLimiter) Handler(limit int, window time.Duration, policy FailPolicy, name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := fmt.Sprintf("ip:%s", c.IP())
		if pid := ProfileID(c); pid != 0 {
			id = fmt.Sprintf("profile:%d", pid)
		}

		resource := name
		if resource == "" {
			resource = c.Path()
		}

		allowed, err := l.Allow(c.UserContext(), resource, id, limit, window)
		if err != nil {
			if policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit store unavailable",
					slog.String("resource", resource),
					slog.String("error", err.Error()),
				)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "rate limit unavailable",
				})
			}
			return c.Next()
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
