package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/helpdesk-admin/internal/config"
	apperrors "github.com/spec-kit/helpdesk-admin/pkg/util"
)

// LoginRateLimiter caps login attempts per client IP over a fixed window
// backed by Redis. A Redis outage fails open: authentication must stay
// available without the limiter.
func LoginRateLimiter(cfg config.RateLimitConfig, rdb *redis.Client) fiber.Handler {
	if !cfg.Enabled || rdb == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("ratelimit:login:%s", c.IP())
		ctx := c.UserContext()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			return c.Next()
		}
		if count == 1 {
			_ = rdb.Expire(ctx, key, cfg.Window()).Err()
		}

		remaining := int64(cfg.MaxAttempts) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(cfg.MaxAttempts))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(cfg.MaxAttempts) {
			c.Set("Retry-After", strconv.Itoa(cfg.WindowSeconds))
			return apperrors.NewDomainError("TOO_MANY_REQUESTS", "too many login attempts",
				fiber.StatusTooManyRequests, nil)
		}
		return c.Next()
	}
}
