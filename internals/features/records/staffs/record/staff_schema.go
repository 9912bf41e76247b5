// file: internals/features/records/staffs/record/staff_schema.go
package record

import (
	"strconv"
	"strings"

	"eduarchive_backend/internals/features/records/wizard"

	"github.com/go-playground/validator/v10"
)

const (
	tagJenjangWajib = "jenjang_wajib"
	tagLulusWajib   = "lulus_wajib"
	tagIjazahWajib  = "ijazah_wajib"
)

// jenjang minimal untuk status Lengkap
var RequiredJenjang = []string{"SD", "SMP", "SMA"}

var Steps = []wizard.Step[StaffRecord]{
	{Key: "dataPribadi", Title: "Data Pribadi", Section: func(r *StaffRecord) any { return &r.DataPribadi }},
	{Key: "kepegawaian", Title: "Kepegawaian", Section: func(r *StaffRecord) any { return &r.Kepegawaian }},
	{Key: "pendidikan", Title: "Riwayat Pendidikan", Section: func(r *StaffRecord) any { return &r.Pendidikan }},
	{Key: "dokumen", Title: "Dokumen", Section: func(r *StaffRecord) any { return &r.Dokumen }},
	{Key: "review", Title: "Review"},
}

func NewSchema() (*wizard.Schema[StaffRecord], error) {
	return wizard.NewSchema(Entity, Steps,
		wizard.WithStructRule(wizard.StructRule{
			Fn:       pendidikanComplete,
			Type:     Pendidikan{},
			Complete: true,
			Messages: map[string]string{
				tagJenjangWajib: "{0} wajib memuat jenjang {1}",
				tagLulusWajib:   "{0} jenjang {1} wajib diisi",
				tagIjazahWajib:  "{0} jenjang {1} belum dilampirkan",
			},
		}),
		wizard.WithStructRule(wizard.StructRule{Fn: bukuNikahComplete, Type: StaffRecord{}, Complete: true}),
		wizard.WithRequiredHints(nil, []string{"pendidikan.daftar"}),
	)
}

func pendidikanComplete(sl validator.StructLevel) {
	p := sl.Current().Interface().(Pendidikan)

	var missing []string
	for _, j := range RequiredJenjang {
		i := indexOfJenjang(p.Daftar, j)
		if i < 0 {
			missing = append(missing, j)
			continue
		}
		e := p.Daftar[i]
		prefix := "daftar[" + strconv.Itoa(i) + "]."
		if e.TahunLulus == 0 {
			sl.ReportError(e.TahunLulus, prefix+"tahunLulus", "TahunLulus", tagLulusWajib, j)
		}
		if !e.Ijazah.Attached() {
			sl.ReportError(e.Ijazah, prefix+"ijazah", "Ijazah", tagIjazahWajib, j)
		}
	}
	if len(missing) > 0 {
		sl.ReportError(p.Daftar, "daftar", "Daftar", tagJenjangWajib, strings.Join(missing, ", "))
	}
}

func indexOfJenjang(xs []Education, jenjang string) int {
	for i, e := range xs {
		if strings.EqualFold(strings.TrimSpace(e.Jenjang), jenjang) {
			return i
		}
	}
	return -1
}

// buku nikah hanya wajib bila statusPerkawinan = Kawin
func bukuNikahComplete(sl validator.StructLevel) {
	r := sl.Current().Interface().(StaffRecord)
	if r.DataPribadi.StatusPerkawinan == StatusKawin && !r.Dokumen.BukuNikah.Attached() {
		sl.ReportError(r.Dokumen.BukuNikah, "dokumen.bukuNikah", "BukuNikah", "attached", "")
	}
}

// v1: status bebas, riwayatPendidikan di root, dokumen.foto
func migrateV1(doc map[string]any) error {
	if err := wizard.NormalizeStatusField(doc); err != nil {
		return err
	}
	wizard.RenameKey(doc, "riwayatPendidikan", "pendidikan.daftar")
	wizard.RenameKey(doc, "dokumen.foto", "dokumen.pasFoto")
	return nil
}

var Migrator = wizard.NewMigrator(SchemaVersion, wizard.Migration{From: 1, Fn: migrateV1})
