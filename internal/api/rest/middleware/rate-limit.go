package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper/utils"
	"go.uber.org/zap"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit limits requests per client IP and route. A nil limiter or a
// limiter error lets the request through.
func RateLimit(limiter Limiter, limit int, window time.Duration) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if limiter == nil || limit <= 0 {
			return ctx.Next()
		}

		key := ctx.IP() + ":" + ctx.Route().Path
		ok, err := limiter.Allow(ctx.UserContext(), key, limit, window)
		if err != nil {
			zap.S().Warnw("rate limiter unavailable", "error", err)
			return ctx.Next()
		}
		if !ok {
			ctx.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(window.Seconds())))
			return utils.ResponseError(ctx, fiber.StatusTooManyRequests, utils.CodeTooManyRequests, "Too many requests, please try again later")
		}
		return ctx.Next()
	}
}
