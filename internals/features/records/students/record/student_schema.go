// file: internals/features/records/students/record/student_schema.go
package record

import (
	"strings"

	"eduarchive_backend/internals/features/records/wizard"

	"github.com/go-playground/validator/v10"
)

const (
	tagSatuHP        = "salah_satu_hp"
	tagWilayahSesuai = "wilayah_sesuai"
)

// RegionChecker memastikan desa ⊂ kecamatan ⊂ kabupaten ⊂ provinsi.
type RegionChecker interface {
	ValidChain(provinsiID, kabupatenID, kecamatanID, desaID string) bool
}

var Steps = []wizard.Step[StudentRecord]{
	{Key: "dataSiswa", Title: "Data Siswa", Section: func(r *StudentRecord) any { return &r.DataSiswa }},
	{Key: "alamat", Title: "Alamat", Section: func(r *StudentRecord) any { return &r.Alamat }},
	{Key: "orangTua", Title: "Orang Tua", Section: func(r *StudentRecord) any { return &r.OrangTua }},
	{Key: "dokumen", Title: "Dokumen", Section: func(r *StudentRecord) any { return &r.Dokumen }},
	{Key: "review", Title: "Review"},
}

// NewSchema; regions nil = rantai wilayah tidak dicek.
func NewSchema(regions RegionChecker) (*wizard.Schema[StudentRecord], error) {
	opts := []wizard.Option{
		wizard.WithStructRule(wizard.StructRule{Fn: orangTuaStep, Type: OrangTua{}, StepToo: true}),
		wizard.WithStructRule(wizard.StructRule{
			Fn:       orangTuaComplete,
			Type:     OrangTua{},
			Complete: true,
			Messages: map[string]string{tagSatuHP: "{0} atau No. HP ayah/wali wajib diisi"},
		}),
		wizard.WithRequiredHints(
			[]string{"orangTua.ibu.nama"},
			[]string{"orangTua.ayah.nama", "orangTua.ibu.pekerjaan", "orangTua.ibu.noHp"},
		),
	}
	if regions != nil {
		opts = append(opts, wizard.WithStructRule(wizard.StructRule{
			Fn:       regionChainRule(regions),
			Type:     Alamat{},
			Complete: true,
			Messages: map[string]string{tagWilayahSesuai: "{0} tidak sesuai dengan wilayah yang dipilih"},
		}))
	}
	return wizard.NewSchema(Entity, Steps, opts...)
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// langkah Orang Tua: minimal nama ibu
func orangTuaStep(sl validator.StructLevel) {
	o := sl.Current().Interface().(OrangTua)
	if blank(o.Ibu.Nama) {
		sl.ReportError(o.Ibu.Nama, "ibu.nama", "Ibu.Nama", "required", "")
	}
}

func orangTuaComplete(sl validator.StructLevel) {
	orangTuaStep(sl)
	o := sl.Current().Interface().(OrangTua)
	if blank(o.Ayah.Nama) {
		sl.ReportError(o.Ayah.Nama, "ayah.nama", "Ayah.Nama", "required", "")
	}
	if blank(o.Ibu.Pekerjaan) {
		sl.ReportError(o.Ibu.Pekerjaan, "ibu.pekerjaan", "Ibu.Pekerjaan", "required", "")
	}
	if blank(o.Ayah.NoHP) && blank(o.Ibu.NoHP) && blank(o.Wali.NoHP) {
		sl.ReportError(o.Ibu.NoHP, "ibu.noHp", "Ibu.NoHP", tagSatuHP, "")
	}
}

func regionChainRule(rc RegionChecker) validator.StructLevelFunc {
	return func(sl validator.StructLevel) {
		a := sl.Current().Interface().(Alamat)
		if blank(a.ProvinsiID) || blank(a.KabupatenID) || blank(a.KecamatanID) || blank(a.DesaID) {
			return
		}
		if !rc.ValidChain(a.ProvinsiID, a.KabupatenID, a.KecamatanID, a.DesaID) {
			sl.ReportError(a.DesaID, "desaId", "DesaID", tagWilayahSesuai, "")
		}
	}
}

/* =========================================================
   Migrasi dokumen lama
========================================================= */

// v1: status bebas ("Draft"), dokumen.fotoSiswa, dataSiswa.noTelp
func migrateV1(doc map[string]any) error {
	if err := wizard.NormalizeStatusField(doc); err != nil {
		return err
	}
	wizard.RenameKey(doc, "dokumen.fotoSiswa", "dokumen.pasFoto")
	wizard.RenameKey(doc, "dataSiswa.noTelp", "dataSiswa.noHp")
	return nil
}

var Migrator = wizard.NewMigrator(SchemaVersion, wizard.Migration{From: 1, Fn: migrateV1})
