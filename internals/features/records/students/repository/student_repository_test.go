package repository

import (
	"testing"
	"time"

	"eduarchive_backend/internals/features/records/students/model"
	"eduarchive_backend/internals/features/records/students/record"
	"eduarchive_backend/internals/features/records/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestFromRecordToRecord(t *testing.T) {
	created := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	rec := &record.StudentRecord{
		Meta: wizard.Meta{ID: "a1", Status: wizard.StatusComplete, CreatedAt: &created},
		DataSiswa: record.DataSiswa{
			NamaLengkap: " Ahmad Fauzi ",
			NISN:        "0012345678",
			NIK:         "3273010101100001",
		},
	}

	row, err := FromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, "a1", row.StudentID)
	assert.Equal(t, "0012345678", row.StudentNISN)
	assert.Equal(t, "Ahmad Fauzi", row.StudentNama)
	assert.Equal(t, string(wizard.StatusComplete), row.StudentStatus)
	assert.Equal(t, record.SchemaVersion, row.StudentSchemaVersion)
	assert.Equal(t, created, row.StudentCreatedAt)

	back, err := ToRecord(row)
	require.NoError(t, err)
	assert.Equal(t, "a1", back.ID)
	assert.Equal(t, wizard.StatusComplete, back.Status)
	assert.Equal(t, rec.DataSiswa.NISN, back.DataSiswa.NISN)
	require.NotNil(t, back.CreatedAt)
	assert.True(t, created.Equal(*back.CreatedAt))
}

func TestToRecord_UpgradesV1Document(t *testing.T) {
	row := &model.StudentModel{
		StudentID:            "lama",
		StudentStatus:        "Draft",
		StudentSchemaVersion: 1,
		StudentDocument:      datatypes.JSON(`{"status":"Draft","dataSiswa":{"namaLengkap":"Rina","noTelp":"0813"},"dokumen":{"fotoSiswa":{"fileName":"r.jpg","fileURL":"https://cdn.test/r.jpg"}}}`),
		StudentCreatedAt:     time.Now(),
	}
	rec, err := ToRecord(row)
	require.NoError(t, err)
	assert.Equal(t, wizard.StatusIncomplete, rec.Status)
	assert.Equal(t, record.SchemaVersion, rec.SchemaVersion)
	assert.Equal(t, "0813", rec.DataSiswa.NoHP)
	require.NotNil(t, rec.Dokumen.PasFoto)
	assert.Equal(t, "https://cdn.test/r.jpg", rec.Dokumen.PasFoto.FileURL)
}

func TestToRecord_RejectsNewerVersion(t *testing.T) {
	row := &model.StudentModel{StudentID: "x", StudentSchemaVersion: record.SchemaVersion + 1, StudentDocument: datatypes.JSON(`{}`)}
	_, err := ToRecord(row)
	assert.Error(t, err)
}
