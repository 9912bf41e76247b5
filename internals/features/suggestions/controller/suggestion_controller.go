// file: internals/features/suggestions/controller/suggestion_controller.go
package controller

import (
	"eduarchive_backend/internals/features/suggestions/service"
	helper "eduarchive_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

type SuggestionController struct {
	Svc *service.Service
}

func NewSuggestionController(svc *service.Service) *SuggestionController {
	return &SuggestionController{Svc: svc}
}

type suggestRequest struct {
	Description string `json:"description"`
}

// POST /api/a/suggestions/category
// Selalu 200; saran kosong bila tidak ada yang cocok atau layanan remote gagal.
func (sc *SuggestionController) Category(c *fiber.Ctx) error {
	var req suggestRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	return helper.JsonOK(c, "OK", sc.Svc.Suggest(c.UserContext(), req.Description))
}
