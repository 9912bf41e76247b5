// file: internals/features/uploads/route/upload_route.go
package route

import (
	"eduarchive_backend/internals/features/uploads/controller"

	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(r fiber.Router, uc *controller.UploadController, write fiber.Handler) {
	r.Post("/uploads", write, uc.Upload)
}
