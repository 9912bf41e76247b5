// file: internals/features/uploads/controller/upload_controller.go
package controller

import (
	"strings"

	helper "eduarchive_backend/internals/helpers"
	"eduarchive_backend/internals/helpers/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const defaultDir = "umum"

type UploadController struct {
	Uploader  *storage.Uploader
	MaxUpload int64
	Log       *zap.Logger
}

func NewUploadController(u *storage.Uploader, maxUpload int64, log *zap.Logger) *UploadController {
	if log == nil {
		log = zap.L()
	}
	return &UploadController{Uploader: u, MaxUpload: maxUpload, Log: log.Named("uploads")}
}

// POST /api/a/uploads (multipart: file, dir opsional)
// Gambar di-encode ulang ke WebP; file lain disimpan apa adanya.
func (uc *UploadController) Upload(c *fiber.Ctx) error {
	if !helper.IsMultipart(c) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Gunakan multipart/form-data")
	}
	name, data, err := helper.ReadFormFile(c, "file", uc.MaxUpload)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	dir := defaultDir
	if raw := strings.TrimSpace(c.FormValue("dir")); raw != "" {
		var parts []string
		for _, p := range strings.Split(raw, "/") {
			// segmen kosong / traversal dibuang
			if p = strings.TrimSpace(p); p == "" || p == "." || p == ".." {
				continue
			}
			parts = append(parts, helper.Slugify(p, 40))
		}
		if len(parts) > 0 {
			dir = strings.Join(parts, "/")
		}
	}

	st, err := uc.Uploader.Upload(c.UserContext(), data, name, dir)
	if err != nil {
		uc.Log.Warn("⚠️ upload gagal", zap.String("file", name), zap.Error(err))
		return helper.JsonError(c, storage.HTTPStatus(err), err.Error())
	}
	uc.Log.Info("📦 upload", zap.String("key", st.Key), zap.Int64("bytes", st.Size),
		zap.Any("user", c.Locals("user_name")))
	return helper.JsonCreated(c, "File berhasil diunggah", st)
}
