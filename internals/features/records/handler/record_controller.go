// file: internals/features/records/handler/record_controller.go
package handler

import (
	"strings"
	"time"

	"eduarchive_backend/internals/features/records/sheets"
	"eduarchive_backend/internals/features/records/wizard"
	helper "eduarchive_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const exportLimit = 5000

// RecordController baca/hapus record tersimpan + skema & Excel.
type RecordController[T any] struct {
	Repo   wizard.Repository[T]
	Schema *wizard.Schema[T]
	Log    *zap.Logger
}

func NewRecordController[T any](repo wizard.Repository[T], schema *wizard.Schema[T], log *zap.Logger) *RecordController[T] {
	if log == nil {
		log = zap.L()
	}
	return &RecordController[T]{Repo: repo, Schema: schema, Log: log.Named("records")}
}

func listFilter(c *fiber.Ctx) wizard.ListFilter {
	f := wizard.ListFilter{Q: strings.TrimSpace(c.Query("q"))}
	if st := strings.TrimSpace(c.Query("status")); st != "" {
		f.Status = string(wizard.NormalizeStatus(st))
	}
	return f
}

// GET / ?q=&status=&page=&per_page=
func (ctl *RecordController[T]) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	f := listFilter(c)
	f.Offset, f.Limit = p.Offset, p.Limit

	items, total, err := ctl.Repo.List(c.UserContext(), f)
	if err != nil {
		ctl.Log.Error("❌ gagal ambil daftar", zap.String("reqid", helper.ReqID(c)), zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data")
	}
	if items == nil {
		items = []T{}
	}
	return helper.JsonList(c, "ok", items, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /:id
func (ctl *RecordController[T]) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	rec, err := ctl.Repo.Get(c.UserContext(), id.String())
	if err != nil {
		return writeError(c, err, nil)
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"record":       rec,
		"completeness": ctl.Schema.Evaluate(rec),
	})
}

// DELETE /:id (admin)
func (ctl *RecordController[T]) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.Repo.Delete(c.UserContext(), id.String()); err != nil {
		return writeError(c, err, nil)
	}
	user, _ := c.Locals("user_name").(string)
	ctl.Log.Info("🗑️ record dihapus", zap.String("id", id.String()), zap.String("user", user))
	return helper.JsonDeleted(c, "Data dihapus", fiber.Map{"id": id.String()})
}

// GET /schema
func (ctl *RecordController[T]) Describe(c *fiber.Ctx) error {
	return helper.JsonOK(c, "ok", fiber.Map{
		"entity": ctl.Schema.Entity,
		"steps":  ctl.Schema.Describe(),
	})
}

// GET /template.xlsx
func (ctl *RecordController[T]) Template(c *fiber.Ctx) error {
	f, err := sheets.Template(ctl.Schema.Entity, ctl.Schema.Describe())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat template: "+err.Error())
	}
	return sendWorkbook(c, f, "template_"+ctl.Schema.Entity+".xlsx")
}

// GET /export.xlsx ?q=&status=
func (ctl *RecordController[T]) Export(c *fiber.Ctx) error {
	f := listFilter(c)
	f.Limit = exportLimit
	items, _, err := ctl.Repo.List(c.UserContext(), f)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data")
	}
	wb, err := sheets.Export(ctl.Schema.Entity, ctl.Schema.Describe(), items)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat export: "+err.Error())
	}
	name := ctl.Schema.Entity + "_" + time.Now().Format("20060102_150405") + ".xlsx"
	return sendWorkbook(c, wb, name)
}

func sendWorkbook(c *fiber.Ctx, f *excelize.File, name string) error {
	data, err := sheets.Bytes(f)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menulis workbook")
	}
	c.Set(fiber.HeaderContentType, sheets.MIME)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}
