// file: internals/features/regions/controller/region_controller.go
package controller

import (
	"context"
	"errors"
	"strings"

	"eduarchive_backend/internals/features/regions/service"
	helper "eduarchive_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

type RegionController struct {
	Lookup service.Lookup
}

func NewRegionController(l service.Lookup) *RegionController {
	return &RegionController{Lookup: l}
}

func (ctrl *RegionController) respond(c *fiber.Ctx, items []service.Region, err error) error {
	if err != nil {
		if errors.Is(err, service.ErrRegionNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data wilayah")
	}
	if items == nil {
		items = []service.Region{}
	}
	return helper.JsonOK(c, "ok", items)
}

func (ctrl *RegionController) byParent(fn func(context.Context, string) ([]service.Region, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Params("id"))
		if id == "" {
			return helper.JsonError(c, fiber.StatusBadRequest, "id wajib diisi")
		}
		items, err := fn(c.UserContext(), id)
		return ctrl.respond(c, items, err)
	}
}

// GET /regions/provinces
func (ctrl *RegionController) Provinces(c *fiber.Ctx) error {
	items, err := ctrl.Lookup.ListProvinces(c.UserContext())
	return ctrl.respond(c, items, err)
}

// GET /regions/provinces/:id/regencies
func (ctrl *RegionController) Regencies() fiber.Handler {
	return ctrl.byParent(ctrl.Lookup.ListRegencies)
}

// GET /regions/regencies/:id/districts
func (ctrl *RegionController) Districts() fiber.Handler {
	return ctrl.byParent(ctrl.Lookup.ListDistricts)
}

// GET /regions/districts/:id/villages
func (ctrl *RegionController) Villages() fiber.Handler {
	return ctrl.byParent(ctrl.Lookup.ListVillages)
}
