package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirapurapushyam/AluminiHub-sub000/pkg/ids"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

func RequestLogger(log *zap.Logger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()

		reqID := ctx.Get(RequestIDHeader)
		if reqID == "" {
			reqID = ids.NewRequestID()
		}
		ctx.Set(RequestIDHeader, reqID)
		ctx.Locals("request_id", reqID)

		err := ctx.Next()
		if err != nil {
			// let the app error handler write the response before we read the status
			if herr := ctx.App().ErrorHandler(ctx, err); herr != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError)
			}
		}

		log.Debug("request",
			zap.String("request_id", reqID),
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.Path()),
			zap.Int("status", ctx.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
		)
		return nil
	}
}

// SecurityHeaders sets a conservative set of response headers.
func SecurityHeaders() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ctx.Set("X-Content-Type-Options", "nosniff")
		ctx.Set("X-Frame-Options", "DENY")
		ctx.Set("Referrer-Policy", "no-referrer")
		return ctx.Next()
	}
}
