// file: internals/features/records/sheets/sheets.go
package sheets

import (
	"fmt"
	"strconv"
	"strings"

	"eduarchive_backend/internals/features/records/wizard"
	"eduarchive_backend/internals/helpers/dbtime"

	"github.com/bytedance/sonic"
	"github.com/xuri/excelize/v2"
)

const (
	HelpSheet    = "Petunjuk"
	templateRows = 500
	MIME         = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func sheetName(entity string) string {
	if entity == "" {
		return "Data"
	}
	return strings.ToUpper(entity[:1]) + entity[1:]
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#8EA9DB", Style: 1},
		},
	})
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
		w := float64(len(h) + 4)
		if w < 14 {
			w = 14
		}
		_ = f.SetColWidth(sheet, col, col, w)
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func headerOf(fs wizard.FieldSpec) string {
	if fs.CompleteRequired {
		return fs.Label + " *"
	}
	return fs.Label
}

// Template: satu sheet entitas (header dari skema field + dropdown enum) dan sheet Petunjuk.
func Template(entity string, steps []wizard.StepSpec) (*excelize.File, error) {
	fields := wizard.FlatFields(steps)
	sheet := sheetName(entity)

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := make([]string, len(fields))
	for i, fs := range fields {
		headers[i] = headerOf(fs)
	}
	if err := writeHeader(f, sheet, headers); err != nil {
		return nil, err
	}

	for i, fs := range fields {
		if fs.Kind != "enum" || len(fs.Options) == 0 {
			continue
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		dv := excelize.NewDataValidation(true)
		dv.Sqref = fmt.Sprintf("%s2:%s%d", col, col, templateRows+1)
		if err := dv.SetDropList(fs.Options); err != nil {
			return nil, fmt.Errorf("dropdown %s: %w", fs.Path, err)
		}
		dv.SetError(excelize.DataValidationErrorStyleStop, "Nilai tidak valid", "Pilih salah satu dari daftar")
		if err := f.AddDataValidation(sheet, dv); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(HelpSheet); err != nil {
		return nil, err
	}
	help := [][]string{
		{"Kolom", "Path", "Wajib Lengkap", "Keterangan"},
	}
	for _, fs := range fields {
		wajib := "Tidak"
		if fs.CompleteRequired {
			wajib = "Ya"
		}
		help = append(help, []string{fs.Label, fs.Path, wajib, describeKind(fs)})
	}
	help = append(help,
		[]string{},
		[]string{"Catatan", "", "", "Kolom bertanda * wajib diisi agar status menjadi " + string(wizard.StatusComplete) + "."},
		[]string{"", "", "", "Berkas (foto, dokumen) diunggah lewat aplikasi, tidak lewat Excel."},
	)
	for r, row := range help {
		for c, val := range row {
			col, _ := excelize.ColumnNumberToName(c + 1)
			_ = f.SetCellValue(HelpSheet, fmt.Sprintf("%s%d", col, r+1), val)
		}
	}
	_ = f.SetColWidth(HelpSheet, "A", "A", 28)
	_ = f.SetColWidth(HelpSheet, "B", "B", 32)
	_ = f.SetColWidth(HelpSheet, "C", "C", 14)
	_ = f.SetColWidth(HelpSheet, "D", "D", 60)

	if idx, err := f.GetSheetIndex(sheet); err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func describeKind(fs wizard.FieldSpec) string {
	switch fs.Kind {
	case "enum":
		return "Pilih: " + strings.Join(fs.Options, ", ")
	case "date":
		return "Tanggal, format " + wizard.DateLayout
	case "number":
		return "Angka"
	case "boolean":
		return "Ya / Tidak"
	}
	return "Teks"
}

// Export menulis daftar record: ID, Status, semua field daun, lalu tanggal dibuat.
func Export[T any](entity string, steps []wizard.StepSpec, recs []T) (*excelize.File, error) {
	fields := wizard.FlatFields(steps)
	sheet := sheetName(entity)

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"ID", "Status"}
	for _, fs := range fields {
		headers = append(headers, fs.Label)
	}
	headers = append(headers, "Dibuat")
	if err := writeHeader(f, sheet, headers); err != nil {
		return nil, err
	}

	for i := range recs {
		row := i + 2
		rec, ok := any(&recs[i]).(wizard.Record)
		if !ok {
			return nil, fmt.Errorf("export %s: tipe record tanpa wizard.Meta", entity)
		}
		doc, err := toMap(rec)
		if err != nil {
			return nil, err
		}
		m := rec.RecordMeta()
		values := []any{m.ID, string(m.Status)}
		for _, fs := range fields {
			values = append(values, lookup(doc, fs.Path))
		}
		values = append(values, dbtime.FormatLocal(m.CreatedAt))

		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Bytes serialisasi workbook ke xlsx.
func Bytes(f *excelize.File) ([]byte, error) {
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toMap(v any) (map[string]any, error) {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// lookup path "dataSiswa.namaLengkap" → nilai sel (string / angka).
func lookup(doc map[string]any, path string) any {
	var cur any = doc
	for _, p := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = m[p]
	}
	switch v := cur.(type) {
	case nil:
		return ""
	case string, bool:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return v
	}
	return fmt.Sprint(cur)
}
