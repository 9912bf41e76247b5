package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eduarchive_backend/internals/features/records/sheets"
	"eduarchive_backend/internals/features/records/students/record"
	"eduarchive_backend/internals/features/records/wizard"
	helper "eduarchive_backend/internals/helpers"
	"eduarchive_backend/internals/helpers/storage"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

type envelope struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	ErrorCode string              `json:"error_code"`
	Errors    map[string][]string `json:"errors"`
	Data      json.RawMessage     `json:"data"`
}

type formView = FormView[record.StudentRecord]

type fixture struct {
	app   *fiber.App
	repo  *wizard.MemoryRepository[record.StudentRecord]
	blobs *storage.MemoryStore
}

func newFixture(t *testing.T, g Guards, pre ...fiber.Handler) *fixture {
	t.Helper()
	schema, err := record.NewSchema(nil)
	require.NoError(t, err)

	log := zap.NewNop()
	f := &fixture{
		repo:  wizard.NewMemoryRepository(record.SearchText, record.UniqueKey),
		blobs: storage.NewMemoryStore(),
	}
	up := storage.NewUploader(f.blobs, "uploads", 1<<20, storage.WebPOptions{MaxW: 64, MaxH: 64}, log)
	engine := wizard.NewEngine(schema, f.repo, wizard.NewMemorySessionStore[record.StudentRecord](time.Hour),
		storage.NewMemoryStaging(), up, record.SchemaVersion, log)

	f.app = fiber.New(fiber.Config{
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: helper.FiberErrorHandler,
	})
	for _, h := range pre {
		f.app.Use(h)
	}
	Mount(f.app.Group("/students"),
		NewFormController(engine, 1<<20, log),
		NewRecordController[record.StudentRecord](f.repo, schema, log),
		g,
	)
	return f
}

func (f *fixture) do(t *testing.T, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	var env envelope
	if resp.Header.Get(fiber.HeaderContentType) == fiber.MIMEApplicationJSON {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, sonic.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func (f *fixture) call(t *testing.T, method, path, body string) (int, envelope) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, env := f.do(t, req)
	return resp.StatusCode, env
}

func (f *fixture) attach(t *testing.T, sid, field, name string, data []byte) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("field", field))
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/students/forms/"+sid+"/files", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	resp, env := f.do(t, req)
	return resp.StatusCode, env
}

func decode[V any](t *testing.T, env envelope) V {
	t.Helper()
	var v V
	require.NoError(t, sonic.Unmarshal(env.Data, &v))
	return v
}

const (
	patchSiswa = `{"dataSiswa":{"namaLengkap":"Ahmad Fauzi","nisn":"0012345678","jenisKelamin":"Laki-laki",
		"tempatLahir":"Bandung","tanggalLahir":"2010-01-01","agama":"Islam"}}`
	patchAlamat = `{"alamat":{"alamat":"Jl. Merdeka No. 1"}}`
	patchIbu    = `{"orangTua":{"ibu":{"nama":"Sari"}}}`
)

func (f *fixture) start(t *testing.T) string {
	t.Helper()
	code, env := f.call(t, fiber.MethodPost, "/students/forms", "")
	require.Equal(t, fiber.StatusCreated, code)
	v := decode[formView](t, env)
	require.NotEmpty(t, v.Session.ID)
	assert.Equal(t, 1, v.Session.CurrentStep)
	assert.Equal(t, 5, v.Session.TotalSteps)
	assert.Equal(t, "dataSiswa", v.Step.Key)
	return v.Session.ID
}

func (f *fixture) walkToReview(t *testing.T, sid string) {
	t.Helper()
	for _, p := range []string{patchSiswa, patchAlamat, patchIbu} {
		code, _ := f.call(t, fiber.MethodPatch, "/students/forms/"+sid, p)
		require.Equal(t, fiber.StatusOK, code)
		code, env := f.call(t, fiber.MethodPost, "/students/forms/"+sid+"/next", "")
		require.Equal(t, fiber.StatusOK, code, env.Errors)
	}
	code, _ := f.call(t, fiber.MethodPost, "/students/forms/"+sid+"/next", "")
	require.Equal(t, fiber.StatusOK, code)
}

func TestFormFlow_CreateAttachSubmit(t *testing.T) {
	f := newFixture(t, Guards{})
	sid := f.start(t)

	// langkah 1 kosong ditolak gate
	code, env := f.call(t, fiber.MethodPost, "/students/forms/"+sid+"/next", "")
	require.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.Equal(t, "VALIDATION_ERROR", env.ErrorCode)
	assert.Contains(t, env.Errors, "namaLengkap")
	assert.Contains(t, env.Errors, "nisn")
	stuck := decode[formView](t, env)
	assert.Equal(t, 1, stuck.Session.CurrentStep, "tetap di langkah 1")

	code, env = f.attach(t, sid, "dokumen.aktaKelahiran", "akta.pdf", pdfBytes)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	v := decode[formView](t, env)
	require.NotNil(t, v.Session.Values.Dokumen.AktaKelahiran)
	assert.Equal(t, "akta.pdf", v.Session.Values.Dokumen.AktaKelahiran.FileName)
	assert.Equal(t, "application/pdf", v.Session.Values.Dokumen.AktaKelahiran.ContentType)
	assert.Equal(t, 0, f.blobs.Len(), "belum diunggah sebelum submit")

	f.walkToReview(t, sid)

	code, env = f.call(t, fiber.MethodGet, "/students/forms/"+sid, "")
	require.Equal(t, fiber.StatusOK, code)
	v = decode[formView](t, env)
	assert.Equal(t, 5, v.Session.CurrentStep)
	assert.False(t, v.Completeness.Complete)
	assert.Equal(t, wizard.StatusIncomplete, v.Completeness.Status)

	code, env = f.call(t, fiber.MethodPost, "/students/forms/"+sid+"/submit", "")
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	saved := decode[record.StudentRecord](t, env)
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, wizard.StatusIncomplete, saved.Status)
	require.NotNil(t, saved.Dokumen.AktaKelahiran)
	assert.NotEmpty(t, saved.Dokumen.AktaKelahiran.FileURL)
	assert.Empty(t, saved.Dokumen.AktaKelahiran.Pending)
	assert.Equal(t, 1, f.blobs.Len())
	assert.Equal(t, 1, f.repo.Len())

	// sesi berakhir setelah submit
	code, _ = f.call(t, fiber.MethodGet, "/students/forms/"+sid, "")
	assert.Equal(t, fiber.StatusNotFound, code)

	code, env = f.call(t, fiber.MethodGet, "/students/"+saved.ID, "")
	require.Equal(t, fiber.StatusOK, code)
	got := decode[struct {
		Record       record.StudentRecord `json:"record"`
		Completeness wizard.Completeness  `json:"completeness"`
	}](t, env)
	assert.Equal(t, "Ahmad Fauzi", got.Record.DataSiswa.NamaLengkap)
	assert.Contains(t, got.Completeness.Missing, "dokumen.pasFoto")

	code, env = f.call(t, fiber.MethodGet, "/students/?q=fauzi&status=belum", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, decode[[]record.StudentRecord](t, env), 1)

	code, env = f.call(t, fiber.MethodGet, "/students/?status=lengkap", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Empty(t, decode[[]record.StudentRecord](t, env))

	code, env = f.call(t, fiber.MethodGet, "/students/?page=922337203685477580&per_page=20", "")
	require.Equal(t, fiber.StatusOK, code, "halaman di luar jangkauan tetap 200")
	assert.Empty(t, decode[[]record.StudentRecord](t, env))
}

func TestFormFlow_EditKeepsID(t *testing.T) {
	f := newFixture(t, Guards{})
	sid := f.start(t)
	f.walkToReview(t, sid)
	code, env := f.call(t, fiber.MethodPost, "/students/forms/"+sid+"/submit", "")
	require.Equal(t, fiber.StatusCreated, code)
	saved := decode[record.StudentRecord](t, env)

	code, env = f.call(t, fiber.MethodPost, "/students/"+saved.ID+"/forms", "")
	require.Equal(t, fiber.StatusCreated, code)
	v := decode[formView](t, env)
	assert.Equal(t, wizard.ModeEdit, v.Session.Mode)
	assert.Equal(t, saved.ID, v.Session.RecordID)
	assert.Equal(t, "Ahmad Fauzi", v.Session.Values.DataSiswa.NamaLengkap)
	edit := v.Session.ID

	code, _ = f.call(t, fiber.MethodPatch, "/students/forms/"+edit, `{"dataSiswa":{"kelas":"8B"}}`)
	require.Equal(t, fiber.StatusOK, code)
	f.walkToReview(t, edit)
	code, env = f.call(t, fiber.MethodPost, "/students/forms/"+edit+"/submit", "")
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	updated := decode[record.StudentRecord](t, env)
	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, "8B", updated.DataSiswa.Kelas)
	assert.Equal(t, 1, f.repo.Len())
}

func TestFormFlow_DuplicateNISN(t *testing.T) {
	f := newFixture(t, Guards{})
	for i, want := range []int{fiber.StatusCreated, fiber.StatusConflict} {
		sid := f.start(t)
		f.walkToReview(t, sid)
		code, env := f.call(t, fiber.MethodPost, "/students/forms/"+sid+"/submit", "")
		require.Equal(t, want, code, "submit ke-%d: %s", i+1, env.Message)
		if want == fiber.StatusConflict {
			// values tetap ada untuk dikirim ulang
			v := decode[formView](t, env)
			assert.Equal(t, "0012345678", v.Session.Values.DataSiswa.NISN)
			assert.False(t, v.Session.Submitting)
			assert.NotEmpty(t, v.Session.LastError)
		}
	}
	assert.Equal(t, 1, f.repo.Len())
}

func TestFormErrors(t *testing.T) {
	f := newFixture(t, Guards{})
	sid := f.start(t)
	base := "/students/forms/" + sid

	cases := []struct {
		name, method, path, body string
		want                     int
	}{
		{"sesi tak dikenal", fiber.MethodGet, "/students/forms/nope", "", fiber.StatusNotFound},
		{"submit sebelum langkah akhir", fiber.MethodPost, base + "/submit", "", fiber.StatusConflict},
		{"patch kosong", fiber.MethodPatch, base, "", fiber.StatusBadRequest},
		{"patch bukan objek", fiber.MethodPatch, base, `[1,2]`, fiber.StatusBadRequest},
		{"langkah di luar rentang", fiber.MethodPost, base + "/steps/9/validate", "", fiber.StatusBadRequest},
		{"langkah bukan angka", fiber.MethodPost, base + "/steps/x/validate", "", fiber.StatusBadRequest},
		{"detach tanpa field", fiber.MethodDelete, base + "/files", "", fiber.StatusBadRequest},
		{"detach index bukan angka", fiber.MethodDelete, base + "/files?field=dokumen.raporTerakhir&index=a", "", fiber.StatusBadRequest},
		{"detach field tak dikenal", fiber.MethodDelete, base + "/files?field=dokumen.tidakAda", "", fiber.StatusBadRequest},
		{"record id bukan uuid", fiber.MethodGet, "/students/abc", "", fiber.StatusBadRequest},
		{"record tidak ada", fiber.MethodGet, "/students/6f1c1a52-0000-4000-8000-000000000000", "", fiber.StatusNotFound},
		{"edit record tidak ada", fiber.MethodPost, "/students/6f1c1a52-0000-4000-8000-000000000000/forms", "", fiber.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := f.call(t, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.want, code, env.Message)
			assert.False(t, env.Success)
		})
	}
}

func TestFormValidateStep(t *testing.T) {
	f := newFixture(t, Guards{})
	sid := f.start(t)

	code, env := f.call(t, fiber.MethodPost, "/students/forms/"+sid+"/steps/3/validate", "")
	require.Equal(t, fiber.StatusOK, code)
	res := decode[wizard.StepResult](t, env)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "ibu.nama")

	code, env = f.call(t, fiber.MethodPost, "/students/forms/"+sid+"/steps/4/validate", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.True(t, decode[wizard.StepResult](t, env).Valid)
}

func TestFormAttachErrors(t *testing.T) {
	f := newFixture(t, Guards{})
	sid := f.start(t)

	code, _ := f.attach(t, sid, "dokumen.kartuKeluarga", "kk.txt", []byte("bukan dokumen"))
	assert.Equal(t, fiber.StatusUnsupportedMediaType, code)

	code, _ = f.attach(t, sid, "dokumen.kartuKeluarga", "kk.pdf", bytes.Repeat(pdfBytes, 1<<20/len(pdfBytes)+1))
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, code)

	code, _ = f.attach(t, sid, "dataSiswa.namaLengkap", "x.pdf", pdfBytes)
	assert.Equal(t, fiber.StatusBadRequest, code, "bukan field berkas")

	code, _ = f.call(t, fiber.MethodPost, "/students/forms/"+sid+"/files", `{"field":"dokumen.kartuKeluarga"}`)
	assert.Equal(t, fiber.StatusBadRequest, code, "wajib multipart")

	// rapor berupa daftar: tambah lalu lepas per indeks
	for i := 0; i < 2; i++ {
		code, _ = f.attach(t, sid, "dokumen.raporTerakhir", "rapor.pdf", pdfBytes)
		require.Equal(t, fiber.StatusOK, code)
	}
	code, env := f.call(t, fiber.MethodDelete, "/students/forms/"+sid+"/files?field=dokumen.raporTerakhir&index=0", "")
	require.Equal(t, fiber.StatusOK, code, env.Message)
	assert.Len(t, decode[formView](t, env).Session.Values.Dokumen.RaporTerakhir, 1)
}

func TestFormPrevAndAbandon(t *testing.T) {
	f := newFixture(t, Guards{})
	sid := f.start(t)

	code, env := f.call(t, fiber.MethodPost, "/students/forms/"+sid+"/prev", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, 1, decode[formView](t, env).Session.CurrentStep)

	f.call(t, fiber.MethodPatch, "/students/forms/"+sid, patchSiswa)
	f.call(t, fiber.MethodPost, "/students/forms/"+sid+"/next", "")
	code, env = f.call(t, fiber.MethodPost, "/students/forms/"+sid+"/prev", "")
	require.Equal(t, fiber.StatusOK, code)
	v := decode[formView](t, env)
	assert.Equal(t, 1, v.Session.CurrentStep)
	assert.Equal(t, "Ahmad Fauzi", v.Session.Values.DataSiswa.NamaLengkap, "values tetap saat mundur")

	code, _ = f.call(t, fiber.MethodDelete, "/students/forms/"+sid, "")
	require.Equal(t, fiber.StatusOK, code)
	code, _ = f.call(t, fiber.MethodGet, "/students/forms/"+sid, "")
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestRecordDescribeAndWorkbooks(t *testing.T) {
	f := newFixture(t, Guards{})

	code, env := f.call(t, fiber.MethodGet, "/students/schema", "")
	require.Equal(t, fiber.StatusOK, code)
	desc := decode[struct {
		Entity string            `json:"entity"`
		Steps  []wizard.StepSpec `json:"steps"`
	}](t, env)
	assert.Equal(t, record.Entity, desc.Entity)
	assert.Len(t, desc.Steps, 5)

	for _, path := range []string{"/students/template.xlsx", "/students/export.xlsx?status=lengkap"} {
		resp, _ := f.do(t, httptest.NewRequest(fiber.MethodGet, path, nil))
		require.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		assert.Equal(t, sheets.MIME, resp.Header.Get(fiber.HeaderContentType))
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment;")
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), ".xlsx")
	}
}

func TestRecordGuards(t *testing.T) {
	role := func(c *fiber.Ctx) error {
		c.Locals("userRole", c.Get("X-Role"))
		return c.Next()
	}
	only := func(allowed ...string) fiber.Handler {
		return func(c *fiber.Ctx) error {
			r, _ := c.Locals("userRole").(string)
			for _, a := range allowed {
				if r == a {
					return c.Next()
				}
			}
			return helper.JsonError(c, fiber.StatusForbidden, "akses ditolak")
		}
	}
	f := newFixture(t, Guards{Write: only("admin", "operator"), Admin: only("admin")}, role)

	as := func(r, method, path string) int {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set("X-Role", r)
		resp, _ := f.do(t, req)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, as("viewer", fiber.MethodGet, "/students/"))
	assert.Equal(t, fiber.StatusForbidden, as("viewer", fiber.MethodPost, "/students/forms"))
	assert.Equal(t, fiber.StatusCreated, as("operator", fiber.MethodPost, "/students/forms"))

	// simpan satu record untuk uji hapus
	rec, err := f.repo.Save(context.Background(), &record.StudentRecord{DataSiswa: record.DataSiswa{NamaLengkap: "Hapus"}})
	require.NoError(t, err)
	path := "/students/" + rec.ID

	assert.Equal(t, fiber.StatusForbidden, as("operator", fiber.MethodDelete, path))
	assert.Equal(t, fiber.StatusOK, as("admin", fiber.MethodDelete, path))
	assert.Equal(t, fiber.StatusNotFound, as("admin", fiber.MethodDelete, path))
	assert.Equal(t, 0, f.repo.Len())
}
