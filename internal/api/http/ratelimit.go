package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/record-service/internal/config"
	apperrors "github.com/spec-kit/record-service/pkg/util"
)

// RateLimiter bounds requests per client IP in a fixed window, counted
// in redis. A redis outage fails open; throttling is best-effort and
// must not take auth down with it.
func RateLimiter(client *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) fiber.Handler {
	window := cfg.Window()
	return func(c *fiber.Ctx) error {
		if client == nil {
			return c.Next()
		}

		key := fmt.Sprintf("ratelimit:%s", c.IP())
		count, err := client.Incr(c.UserContext(), key).Result()
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			if err := client.Expire(c.UserContext(), key, window).Err(); err != nil {
				logger.Warn("rate limiter expire failed", zap.Error(err))
			}
		}
		if count > int64(cfg.MaxRequests) {
			return apperrors.NewTooManyRequests("too many requests, try again later")
		}
		return c.Next()
	}
}
