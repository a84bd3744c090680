package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// rateStore is the slice of the Redis API the limiter uses. *redis.Client
// satisfies it.
type rateStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd
}

// RateLimiter is a fixed-window limiter backed by Redis INCR/EXPIRE.
type RateLimiter struct {
	Redis  rateStore
	Prefix string
	Limit  int
	Window time.Duration
	Log    *zap.SugaredLogger
}

func NewRateLimiter(r rateStore, prefix string, limit int, window time.Duration, log *zap.SugaredLogger) *RateLimiter {
	return &RateLimiter{Redis: r, Prefix: prefix, Limit: limit, Window: window, Log: log}
}

// ByIP limits requests per client IP. A nil limiter passes everything
// through, so the server works without Redis configured.
func (r *RateLimiter) ByIP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if r == nil || r.Redis == nil {
			return c.Next()
		}
		key := fmt.Sprintf("%s:%s", r.Prefix, c.IP())
		count, err := r.Redis.Incr(c.Context(), key).Result()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  false,
				"message": "Rate limiter error !",
			})
		}
		if count == 1 {
			// A key whose EXPIRE failed never resets. Surface it.
			if err := r.Redis.Expire(c.Context(), key, r.Window).Err(); err != nil {
				r.Log.Errorw("rate limit window expire failed", "key", key, "err", err)
			}
		}
		if count > int64(r.Limit) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"status":  false,
				"message": "Too many requests, please try again later !",
			})
		}
		return c.Next()
	}
}
