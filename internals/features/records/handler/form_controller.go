// file: internals/features/records/handler/form_controller.go
package handler

import (
	"strconv"
	"strings"

	"eduarchive_backend/internals/features/records/wizard"
	helper "eduarchive_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FormController permukaan HTTP sesi wizard untuk satu entitas.
type FormController[T any] struct {
	Engine    *wizard.Engine[T]
	MaxUpload int64
	Log       *zap.Logger
}

func NewFormController[T any](engine *wizard.Engine[T], maxUpload int64, log *zap.Logger) *FormController[T] {
	if log == nil {
		log = zap.L()
	}
	return &FormController[T]{Engine: engine, MaxUpload: maxUpload, Log: log.Named("form")}
}

type stepInfo struct {
	Index int    `json:"index"`
	Key   string `json:"key,omitempty"`
	Title string `json:"title"`
}

// FormView state sesi + ringkasan kelengkapan untuk UI.
type FormView[T any] struct {
	Session      *wizard.Session[T]  `json:"session"`
	Step         stepInfo            `json:"step"`
	Completeness wizard.Completeness `json:"completeness"`
}

func (ctl *FormController[T]) view(s *wizard.Session[T]) *FormView[T] {
	if s == nil {
		return nil
	}
	info := stepInfo{Index: s.CurrentStep}
	if st := ctl.Engine.Schema.Steps; s.CurrentStep >= 1 && s.CurrentStep <= len(st) {
		info.Key = st[s.CurrentStep-1].Key
		info.Title = st[s.CurrentStep-1].Title
	}
	return &FormView[T]{
		Session:      s,
		Step:         info,
		Completeness: ctl.Engine.Schema.Evaluate(&s.Values),
	}
}

func (ctl *FormController[T]) fail(c *fiber.Ctx, err error, s *wizard.Session[T]) error {
	var data any
	if s != nil {
		data = ctl.view(s)
	}
	return writeError(c, err, data)
}

// POST /forms
func (ctl *FormController[T]) Start(c *fiber.Ctx) error {
	s, err := ctl.Engine.Start(c.UserContext(), "")
	if err != nil {
		return ctl.fail(c, err, nil)
	}
	return helper.JsonCreated(c, "Sesi form dibuat", ctl.view(s))
}

// POST /:id/forms : buka record tersimpan untuk diedit
func (ctl *FormController[T]) StartEdit(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	s, err := ctl.Engine.Start(c.UserContext(), id.String())
	if err != nil {
		return ctl.fail(c, err, nil)
	}
	return helper.JsonCreated(c, "Sesi edit dibuat", ctl.view(s))
}

// GET /forms/:sid
func (ctl *FormController[T]) Get(c *fiber.Ctx) error {
	s, err := ctl.Engine.Get(c.UserContext(), c.Params("sid"))
	if err != nil {
		return ctl.fail(c, err, nil)
	}
	return helper.JsonOK(c, "ok", ctl.view(s))
}

// PATCH /forms/:sid : body JSON merge patch atas values
func (ctl *FormController[T]) Patch(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "body kosong")
	}
	s, err := ctl.Engine.Update(c.UserContext(), c.Params("sid"), body)
	if err != nil {
		return ctl.fail(c, err, s)
	}
	return helper.JsonUpdated(c, "Form diperbarui", ctl.view(s))
}

// POST /forms/:sid/steps/:step/validate
func (ctl *FormController[T]) Validate(c *fiber.Ctx) error {
	step, err := strconv.Atoi(c.Params("step"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, wizard.ErrInvalidStep.Error())
	}
	res, err := ctl.Engine.ValidateStep(c.UserContext(), c.Params("sid"), step)
	if err != nil {
		return ctl.fail(c, err, nil)
	}
	return helper.JsonOK(c, "ok", res)
}

// POST /forms/:sid/next
func (ctl *FormController[T]) Next(c *fiber.Ctx) error {
	s, err := ctl.Engine.Next(c.UserContext(), c.Params("sid"))
	if err != nil {
		return ctl.fail(c, err, s)
	}
	return helper.JsonOK(c, "ok", ctl.view(s))
}

// POST /forms/:sid/prev
func (ctl *FormController[T]) Prev(c *fiber.Ctx) error {
	s, err := ctl.Engine.Prev(c.UserContext(), c.Params("sid"))
	if err != nil {
		return ctl.fail(c, err, s)
	}
	return helper.JsonOK(c, "ok", ctl.view(s))
}

// POST /forms/:sid/files (multipart: field, file)
func (ctl *FormController[T]) Attach(c *fiber.Ctx) error {
	if !helper.IsMultipart(c) {
		return helper.JsonError(c, fiber.StatusBadRequest, "gunakan multipart/form-data")
	}
	field := strings.TrimSpace(c.FormValue("field"))
	if field == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "field wajib diisi")
	}
	name, data, err := helper.ReadFormFile(c, "file", ctl.MaxUpload)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	s, err := ctl.Engine.Attach(c.UserContext(), c.Params("sid"), field, name, data)
	if err != nil {
		return ctl.fail(c, err, s)
	}
	ctl.Log.Debug("📎 berkas dilampirkan",
		zap.String("reqid", helper.ReqID(c)),
		zap.String("field", field),
		zap.Int("bytes", len(data)),
	)
	return helper.JsonUpdated(c, "Berkas dilampirkan", ctl.view(s))
}

// DELETE /forms/:sid/files?field=dokumen.raporTerakhir&index=1
func (ctl *FormController[T]) Detach(c *fiber.Ctx) error {
	field := strings.TrimSpace(c.Query("field"))
	if field == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "field wajib diisi")
	}
	if idx := strings.TrimSpace(c.Query("index")); idx != "" {
		if _, err := strconv.Atoi(idx); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "index harus angka")
		}
		field += "[" + idx + "]"
	}
	s, err := ctl.Engine.Detach(c.UserContext(), c.Params("sid"), field)
	if err != nil {
		return ctl.fail(c, err, s)
	}
	return helper.JsonUpdated(c, "Berkas dilepas", ctl.view(s))
}

// POST /forms/:sid/submit
func (ctl *FormController[T]) Submit(c *fiber.Ctx) error {
	sid := c.Params("sid")
	rec, err := ctl.Engine.Submit(c.UserContext(), sid)
	if err != nil {
		s, _ := ctl.Engine.Get(c.UserContext(), sid)
		return ctl.fail(c, err, s)
	}
	user, _ := c.Locals("user_name").(string)
	ctl.Log.Info("✅ form dikirim",
		zap.String("reqid", helper.ReqID(c)),
		zap.String("user", user),
		zap.String("session", sid),
	)
	return helper.JsonCreated(c, "Data tersimpan", rec)
}

// DELETE /forms/:sid
func (ctl *FormController[T]) Abandon(c *fiber.Ctx) error {
	if err := ctl.Engine.Abandon(c.UserContext(), c.Params("sid")); err != nil {
		return ctl.fail(c, err, nil)
	}
	return helper.JsonDeleted(c, "Sesi form dibatalkan", nil)
}
