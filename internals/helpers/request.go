package helper

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const LocReqID = "reqid"

func ReqID(c *fiber.Ctx) string {
	if v := c.Locals(LocReqID); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "-"
}

func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	idStr := strings.TrimSpace(c.Params(name))
	if idStr == "" {
		return uuid.Nil, errors.New(name + " is required")
	}
	u, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, errors.New(name + " is invalid uuid")
	}
	return u, nil
}

func IsMultipart(c *fiber.Ctx) bool {
	ct := strings.ToLower(strings.TrimSpace(c.Get(fiber.HeaderContentType)))
	return strings.HasPrefix(ct, fiber.MIMEMultipartForm)
}

// ReadFormFile membaca satu file multipart; maxSize > 0 membatasi isi yang dibaca
// (lebih 1 byte supaya uploader tetap bisa menolak dengan ErrTooLarge).
func ReadFormFile(c *fiber.Ctx, field string, maxSize int64) (string, []byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil, fmt.Errorf("file %q wajib dikirim", field)
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if maxSize > 0 {
		r = io.LimitReader(f, maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", nil, err
	}
	return filepath.Base(fh.Filename), data, nil
}
