// file: internals/features/regions/route/region_route.go
package route

import (
	"eduarchive_backend/internals/features/regions/controller"
	"eduarchive_backend/internals/features/regions/service"

	"github.com/gofiber/fiber/v2"
)

// Publik: data wilayah boleh di-cache klien.
func RegionPublicRoutes(public fiber.Router, lookup service.Lookup) {
	ctrl := controller.NewRegionController(lookup)

	r := public.Group("/regions", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
		return c.Next()
	})
	r.Get("/provinces", ctrl.Provinces)                 // 🗺️ provinsi
	r.Get("/provinces/:id/regencies", ctrl.Regencies()) // 🏙️ kabupaten/kota
	r.Get("/regencies/:id/districts", ctrl.Districts()) // 🏘️ kecamatan
	r.Get("/districts/:id/villages", ctrl.Villages())   // 🏡 desa/kelurahan
}
