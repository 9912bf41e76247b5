// file: internals/features/records/handler/mount.go
package handler

import (
	"github.com/gofiber/fiber/v2"
)

// Guards middleware peran; nil = tanpa guard (test).
type Guards struct {
	Write fiber.Handler
	Admin fiber.Handler
}

func pass(c *fiber.Ctx) error { return c.Next() }

// Mount memasang route record + sesi form untuk satu entitas di bawah r (mis. /api/a/students).
func Mount[T any](r fiber.Router, forms *FormController[T], records *RecordController[T], g Guards) {
	write, admin := g.Write, g.Admin
	if write == nil {
		write = pass
	}
	if admin == nil {
		admin = pass
	}

	// 📄 baca (semua peran)
	r.Get("/", records.List)
	r.Get("/schema", records.Describe)
	r.Get("/template.xlsx", records.Template)
	r.Get("/export.xlsx", records.Export)

	// 📝 sesi wizard (admin/operator)
	r.Post("/forms", write, forms.Start)
	f := r.Group("/forms/:sid", write)
	f.Get("/", forms.Get)
	f.Patch("/", forms.Patch)
	f.Delete("/", forms.Abandon)
	f.Post("/steps/:step/validate", forms.Validate)
	f.Post("/next", forms.Next)
	f.Post("/prev", forms.Prev)
	f.Post("/files", forms.Attach)
	f.Delete("/files", forms.Detach)
	f.Post("/submit", forms.Submit)

	r.Post("/:id/forms", write, forms.StartEdit)
	r.Get("/:id", records.Get)
	r.Delete("/:id", admin, records.Delete)
}
