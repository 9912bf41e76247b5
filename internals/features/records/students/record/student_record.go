// file: internals/features/records/students/record/student_record.go
package record

import (
	"strings"

	"eduarchive_backend/internals/features/records/wizard"
)

const (
	Entity        = "siswa"
	SchemaVersion = 2
)

/* =========================================================
   Record siswa (dokumen JSON yang disimpan utuh)
========================================================= */

type StudentRecord struct {
	wizard.Meta
	DataSiswa DataSiswa `json:"dataSiswa"`
	Alamat    Alamat    `json:"alamat"`
	OrangTua  OrangTua  `json:"orangTua"`
	Dokumen   Dokumen   `json:"dokumen"`
}

type DataSiswa struct {
	NamaLengkap  string      `json:"namaLengkap" label:"Nama Lengkap" validate:"required,max=120"`
	NISN         string      `json:"nisn" label:"NISN" validate:"required,numeric,len=10"`
	NIK          string      `json:"nik" label:"NIK" validate:"omitempty,numeric,len=16" complete:"required"`
	JenisKelamin string      `json:"jenisKelamin" label:"Jenis Kelamin" validate:"required,oneof=Laki-laki Perempuan"`
	TempatLahir  string      `json:"tempatLahir" label:"Tempat Lahir" validate:"required,max=80"`
	TanggalLahir wizard.Date `json:"tanggalLahir" label:"Tanggal Lahir" validate:"required"`
	Agama        string      `json:"agama" label:"Agama" validate:"required,oneof=Islam Kristen Katolik Hindu Buddha Konghucu"`
	Kelas        string      `json:"kelas" label:"Kelas" validate:"omitempty,max=20"`
	Email        string      `json:"email" label:"Email" validate:"omitempty,email"`
	NoHP         string      `json:"noHp" label:"No. HP" validate:"omitempty,numeric,min=9,max=15" complete:"required"`
}

type Alamat struct {
	Alamat      string `json:"alamat" label:"Alamat" validate:"required,max=255"`
	RT          string `json:"rt" label:"RT" validate:"omitempty,numeric,max=3"`
	RW          string `json:"rw" label:"RW" validate:"omitempty,numeric,max=3"`
	ProvinsiID  string `json:"provinsiId" label:"Provinsi" complete:"required"`
	KabupatenID string `json:"kabupatenId" label:"Kabupaten/Kota" complete:"required"`
	KecamatanID string `json:"kecamatanId" label:"Kecamatan" complete:"required"`
	DesaID      string `json:"desaId" label:"Desa/Kelurahan" complete:"required"`
	KodePos     string `json:"kodePos" label:"Kode Pos" validate:"omitempty,numeric,len=5" complete:"required"`
}

type Parent struct {
	Nama      string `json:"nama" label:"Nama" validate:"omitempty,max=120"`
	NIK       string `json:"nik" label:"NIK" validate:"omitempty,numeric,len=16"`
	Pekerjaan string `json:"pekerjaan" label:"Pekerjaan" validate:"omitempty,max=80"`
	NoHP      string `json:"noHp" label:"No. HP" validate:"omitempty,numeric,min=9,max=15"`
}

type OrangTua struct {
	Ayah Parent `json:"ayah" label:"Ayah"`
	Ibu  Parent `json:"ibu" label:"Ibu"`
	Wali Parent `json:"wali" label:"Wali"`
}

type Dokumen struct {
	PasFoto       *wizard.FileRef  `json:"pasFoto" label:"Pas Foto" complete:"attached"`
	AktaKelahiran *wizard.FileRef  `json:"aktaKelahiran" label:"Akta Kelahiran" complete:"attached"`
	KartuKeluarga *wizard.FileRef  `json:"kartuKeluarga" label:"Kartu Keluarga" complete:"attached"`
	RaporTerakhir []wizard.FileRef `json:"raporTerakhir" label:"Rapor Terakhir" complete:"min=1,dive,attached"`
	Sertifikat    []wizard.FileRef `json:"sertifikat" label:"Sertifikat"`
}

// SearchText teks yang dicari oleh filter ?q=
func SearchText(r *StudentRecord) string {
	return r.DataSiswa.NamaLengkap + " " + r.DataSiswa.NISN
}

// UniqueKey NISN; kosong = belum diisi (tidak dicek).
func UniqueKey(r *StudentRecord) string {
	return strings.TrimSpace(r.DataSiswa.NISN)
}
