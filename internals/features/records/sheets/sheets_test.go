package sheets

import (
	"bytes"
	"testing"
	"time"

	"eduarchive_backend/internals/features/records/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type pegawai struct {
	wizard.Meta
	Data struct {
		Nama   string `json:"nama"`
		Status string `json:"status"`
		Tahun  int    `json:"tahun"`
	} `json:"data"`
}

var steps = []wizard.StepSpec{
	{Index: 1, Key: "data", Title: "Data", Fields: []wizard.FieldSpec{
		{Name: "data", Path: "data", Kind: "object", Fields: []wizard.FieldSpec{
			{Name: "nama", Path: "data.nama", Label: "Nama", Kind: "text", CompleteRequired: true},
			{Name: "status", Path: "data.status", Label: "Status Pegawai", Kind: "enum", Options: []string{"PNS", "Honorer"}},
			{Name: "tahun", Path: "data.tahun", Label: "Tahun Masuk", Kind: "number"},
		}},
		{Name: "foto", Path: "data.foto", Label: "Foto", Kind: "file"},
	}},
	{Index: 2, Title: "Review", Review: true},
}

func reopen(t *testing.T, f *excelize.File) *excelize.File {
	t.Helper()
	data, err := Bytes(f)
	require.NoError(t, err)
	out, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = out.Close() })
	return out
}

func TestTemplate(t *testing.T) {
	f, err := Template("pegawai", steps)
	require.NoError(t, err)
	wb := reopen(t, f)

	assert.Equal(t, []string{"Pegawai", HelpSheet}, wb.GetSheetList())

	rows, err := wb.GetRows("Pegawai")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"Nama *", "Status Pegawai", "Tahun Masuk"}, rows[0], "kolom berkas tidak ikut")

	dvs, err := wb.GetDataValidations("Pegawai")
	require.NoError(t, err)
	require.Len(t, dvs, 1)
	assert.Equal(t, "B2:B501", dvs[0].Sqref)
	assert.Contains(t, dvs[0].Formula1, "PNS,Honorer")

	help, err := wb.GetRows(HelpSheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(help), 4)
	assert.Equal(t, []string{"Nama", "data.nama", "Ya", "Teks"}, help[1])
	assert.Equal(t, "Pilih: PNS, Honorer", help[2][3])
	assert.Equal(t, "Angka", help[3][3])
}

func TestExport(t *testing.T) {
	created := time.Date(2025, time.July, 1, 3, 0, 0, 0, time.UTC)
	var a pegawai
	a.ID, a.Status, a.CreatedAt = "id-1", wizard.StatusComplete, &created
	a.Data.Nama, a.Data.Status, a.Data.Tahun = "Dewi", "PNS", 2010
	var b pegawai
	b.ID, b.Status = "id-2", wizard.StatusIncomplete

	f, err := Export("pegawai", steps, []pegawai{a, b})
	require.NoError(t, err)
	rows, err := reopen(t, f).GetRows("Pegawai")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"ID", "Status", "Nama", "Status Pegawai", "Tahun Masuk", "Dibuat"}, rows[0])
	assert.Equal(t, []string{"id-1", "Lengkap", "Dewi", "PNS", "2010", "2025-07-01 10:00:00"}, rows[1])
	assert.Equal(t, "id-2", rows[2][0])
	assert.Equal(t, "Belum Lengkap", rows[2][1])
}

func TestExport_RequiresMeta(t *testing.T) {
	_, err := Export("x", steps, []struct{ Nama string }{{"a"}})
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	doc := map[string]any{"a": map[string]any{"b": 12.0, "c": 1.5, "d": nil, "e": true}}
	assert.Equal(t, "12", lookup(doc, "a.b"))
	assert.Equal(t, 1.5, lookup(doc, "a.c"))
	assert.Equal(t, "", lookup(doc, "a.d"))
	assert.Equal(t, true, lookup(doc, "a.e"))
	assert.Equal(t, "", lookup(doc, "a.b.x"))
	assert.Equal(t, "Data", sheetName(""))
}
