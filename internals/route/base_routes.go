package routes

import (
	"time"

	database "eduarchive_backend/internals/databases"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func BaseRoutes(app *fiber.App, db *gorm.DB) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("EduArchive API 🚀")
	})

	// ❤️ Health check; DB_DRIVER=memory tetap "OK"
	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "memory"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		if db != nil {
			dbStatus = "Connected"
			if err := database.Ping(db); err != nil {
				dbStatus = "Database connection error"
				serverStatus = "DOWN"
				httpStatus = fiber.StatusServiceUnavailable
			}
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
		})
	})
}
