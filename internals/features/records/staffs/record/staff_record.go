// file: internals/features/records/staffs/record/staff_record.go
package record

import (
	"strings"

	"eduarchive_backend/internals/features/records/wizard"
)

const (
	Entity        = "pegawai"
	SchemaVersion = 2
)

/* =========================================================
   Record pegawai
========================================================= */

type StaffRecord struct {
	wizard.Meta
	DataPribadi DataPribadi `json:"dataPribadi"`
	Kepegawaian Kepegawaian `json:"kepegawaian"`
	Pendidikan  Pendidikan  `json:"pendidikan"`
	Dokumen     Dokumen     `json:"dokumen"`
}

const StatusKawin = "Kawin"

type DataPribadi struct {
	Nama             string      `json:"nama" label:"Nama" validate:"required,max=120"`
	NIP              string      `json:"nip" label:"NIP" validate:"omitempty,numeric,len=18"`
	NIK              string      `json:"nik" label:"NIK" validate:"omitempty,numeric,len=16" complete:"required"`
	JenisKelamin     string      `json:"jenisKelamin" label:"Jenis Kelamin" validate:"required,oneof=Laki-laki Perempuan"`
	TempatLahir      string      `json:"tempatLahir" label:"Tempat Lahir" validate:"omitempty,max=80" complete:"required"`
	TanggalLahir     wizard.Date `json:"tanggalLahir" label:"Tanggal Lahir" complete:"required"`
	Agama            string      `json:"agama" label:"Agama" validate:"omitempty,oneof=Islam Kristen Katolik Hindu Buddha Konghucu" complete:"required"`
	StatusPerkawinan string      `json:"statusPerkawinan" label:"Status Perkawinan" validate:"required,oneof='Belum Kawin' Kawin 'Cerai Hidup' 'Cerai Mati'"`
	Email            string      `json:"email" label:"Email" validate:"omitempty,email"`
	NoHP             string      `json:"noHp" label:"No. HP" validate:"omitempty,numeric,min=9,max=15" complete:"required"`
}

type Kepegawaian struct {
	Jabatan           string      `json:"jabatan" label:"Jabatan" validate:"required,max=100"`
	StatusKepegawaian string      `json:"statusKepegawaian" label:"Status Kepegawaian" validate:"required,oneof=PNS PPPK GTY GTT Honorer"`
	UnitKerja         string      `json:"unitKerja" label:"Unit Kerja" validate:"omitempty,max=150" complete:"required"`
	TMT               wizard.Date `json:"tmt" label:"TMT" complete:"required"`
	Golongan          string      `json:"golongan" label:"Golongan" validate:"omitempty,max=10"`
}

type Pendidikan struct {
	Daftar []Education `json:"daftar" label:"Riwayat Pendidikan" validate:"dive"`
}

type Education struct {
	Jenjang     string          `json:"jenjang" label:"Jenjang" validate:"required,oneof=SD SMP SMA D1 D2 D3 D4 S1 S2 S3"`
	NamaSekolah string          `json:"namaSekolah" label:"Nama Sekolah" validate:"required,max=150"`
	TahunLulus  int             `json:"tahunLulus" label:"Tahun Lulus" validate:"omitempty,min=1950,max=2100"`
	Ijazah      *wizard.FileRef `json:"ijazah" label:"Ijazah"`
}

type Dokumen struct {
	PasFoto              *wizard.FileRef `json:"pasFoto" label:"Pas Foto" complete:"attached"`
	KTP                  *wizard.FileRef `json:"ktp" label:"KTP" complete:"attached"`
	KartuKeluarga        *wizard.FileRef `json:"kartuKeluarga" label:"Kartu Keluarga" complete:"attached"`
	AktaKelahiran        *wizard.FileRef `json:"aktaKelahiran" label:"Akta Kelahiran" complete:"attached"`
	NPWP                 *wizard.FileRef `json:"npwp" label:"NPWP" complete:"attached"`
	BukuNikah            *wizard.FileRef `json:"bukuNikah" label:"Buku Nikah"`
	SKPengangkatan       *wizard.FileRef `json:"skPengangkatan" label:"SK Pengangkatan" complete:"attached"`
	SKPangkatTerakhir    *wizard.FileRef `json:"skPangkatTerakhir" label:"SK Pangkat Terakhir" complete:"attached"`
	SKJabatan            *wizard.FileRef `json:"skJabatan" label:"SK Jabatan" complete:"attached"`
	KartuPegawai         *wizard.FileRef `json:"kartuPegawai" label:"Kartu Pegawai" complete:"attached"`
	KartuTaspen          *wizard.FileRef `json:"kartuTaspen" label:"Kartu Taspen" complete:"attached"`
	BPJSKesehatan        *wizard.FileRef `json:"bpjsKesehatan" label:"BPJS Kesehatan" complete:"attached"`
	BPJSKetenagakerjaan  *wizard.FileRef `json:"bpjsKetenagakerjaan" label:"BPJS Ketenagakerjaan" complete:"attached"`
	SuratKeteranganSehat *wizard.FileRef `json:"suratKeteranganSehat" label:"Surat Keterangan Sehat" complete:"attached"`
	SKCK                 *wizard.FileRef `json:"skck" label:"SKCK" complete:"attached"`
	DaftarRiwayatHidup   *wizard.FileRef `json:"daftarRiwayatHidup" label:"Daftar Riwayat Hidup" complete:"attached"`
	SertifikatPendidik   *wizard.FileRef `json:"sertifikatPendidik" label:"Sertifikat Pendidik" complete:"attached"`
}

func SearchText(r *StaffRecord) string {
	return r.DataPribadi.Nama + " " + r.DataPribadi.NIP
}

// UniqueKey NIP; pegawai non-PNS boleh tanpa NIP.
func UniqueKey(r *StaffRecord) string {
	return strings.TrimSpace(r.DataPribadi.NIP)
}
