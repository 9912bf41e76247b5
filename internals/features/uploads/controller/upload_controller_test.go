package controller

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"eduarchive_backend/internals/helpers/storage"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

func newApp() (*fiber.App, *storage.MemoryStore) {
	blobs := storage.NewMemoryStore()
	up := storage.NewUploader(blobs, "uploads", 1<<20, storage.WebPOptions{MaxW: 64, MaxH: 64}, zap.NewNop())
	uc := NewUploadController(up, 1<<20, zap.NewNop())
	app := fiber.New()
	app.Post("/uploads", uc.Upload)
	return app, blobs
}

func multipartBody(t *testing.T, dir, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if dir != "" {
		require.NoError(t, w.WriteField("dir", dir))
	}
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, _ = part.Write(data)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUpload(t *testing.T) {
	app, blobs := newApp()
	body, ct := multipartBody(t, "Siswa Baru/../Dokumen", "Akta Lahir.pdf", pdfBytes)
	req := httptest.NewRequest(fiber.MethodPost, "/uploads", body)
	req.Header.Set(fiber.HeaderContentType, ct)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var env struct {
		Data storage.Stored `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(raw, &env))
	assert.Equal(t, "application/pdf", env.Data.ContentType)
	assert.True(t, strings.HasPrefix(env.Data.Key, "uploads/siswa-baru/dokumen/"), env.Data.Key)
	assert.NotContains(t, env.Data.Key, "..")
	assert.NotEmpty(t, env.Data.URL)
	assert.Equal(t, 1, blobs.Len())
}

func TestUpload_DefaultDir(t *testing.T) {
	app, _ := newApp()
	body, ct := multipartBody(t, "", "x.pdf", pdfBytes)
	req := httptest.NewRequest(fiber.MethodPost, "/uploads", body)
	req.Header.Set(fiber.HeaderContentType, ct)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), `"key":"uploads/`+defaultDir+`/`)
}

func TestUpload_Rejects(t *testing.T) {
	app, blobs := newApp()

	req := httptest.NewRequest(fiber.MethodPost, "/uploads", strings.NewReader(`{}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body, ct := multipartBody(t, "", "catatan.txt", []byte("teks biasa"))
	req = httptest.NewRequest(fiber.MethodPost, "/uploads", body)
	req.Header.Set(fiber.HeaderContentType, ct)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)

	assert.Equal(t, 0, blobs.Len())
}
