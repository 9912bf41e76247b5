package middlewares

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// RecoveryMiddleware menangkap panic dan mengembalikan error 500
func RecoveryMiddleware(log *zap.Logger) fiber.Handler {
	if log == nil {
		log = zap.L()
	}
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Error("🔥 panic",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.Any("reqid", c.Locals("reqid")),
				zap.String("panic", fmt.Sprint(e)),
				zap.StackSkip("stack", 3),
			)
		},
	})
}
