package middlewares

import (
	"context"
	"time"

	"eduarchive_backend/internals/configs"
	"eduarchive_backend/internals/middlewares/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"
	"go.uber.org/zap"
)

// RequestID + timeout guard (selaras dengan statement_timeout di DB).
func RequestContext(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		if timeout <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// SetupMiddlewares urutan: recover → request id → log → cors → compress/etag → rate limit.
func SetupMiddlewares(app *fiber.App, cfg *configs.Config, log *zap.Logger) {
	app.Use(RecoveryMiddleware(log))
	app.Use(RequestContext(cfg.Server.RequestTimeout))
	if cfg.Log.Format == "console" {
		app.Use(logger.LoggerMiddleware())
	} else {
		app.Use(logger.RequestLogger(log))
	}
	app.Use(CorsMiddleware(cfg.Server.AllowOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(GlobalRateLimiter())
}
