// middlewares/cors.go

package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

var defaultOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"http://127.0.0.1:5500",
}

// CorsMiddleware membuat middleware CORS dari daftar origin dipisah koma; kosong = daftar development.
// "*" tidak boleh dipakai bersama AllowCredentials, jadi credentials dimatikan.
func CorsMiddleware(origins string) fiber.Handler {
	joined := strings.TrimSpace(origins)
	if joined == "" {
		joined = strings.Join(defaultOrigins, ", ")
	}
	return cors.New(cors.Config{
		AllowOrigins:     joined,
		AllowMethods:     "GET,POST,PATCH,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders:    "Content-Disposition, X-Request-ID",
		AllowCredentials: joined != "*",
	})
}
