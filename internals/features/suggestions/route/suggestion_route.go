// file: internals/features/suggestions/route/suggestion_route.go
package route

import (
	"eduarchive_backend/internals/features/suggestions/controller"

	"github.com/gofiber/fiber/v2"
)

func SuggestionRoutes(r fiber.Router, sc *controller.SuggestionController) {
	g := r.Group("/suggestions")
	g.Post("/category", sc.Category)
}
