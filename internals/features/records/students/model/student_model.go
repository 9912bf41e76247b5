// file: internals/features/records/students/model/student_model.go
package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
===========================

	STUDENTS (record siswa)
	Kolom kunci untuk filter/unique; isi lengkap di student_document.
	===========================
*/
type StudentModel struct {
	StudentID            string         `gorm:"column:student_id;primaryKey;type:varchar(36)"`
	StudentNISN          string         `gorm:"column:student_nisn;type:varchar(10);uniqueIndex:uq_students_nisn"`
	StudentNIK           string         `gorm:"column:student_nik;type:varchar(16);index"`
	StudentNama          string         `gorm:"column:student_nama;type:varchar(120);not null;index"`
	StudentStatus        string         `gorm:"column:student_status;type:varchar(20);not null;index"`
	StudentSchemaVersion int            `gorm:"column:student_schema_version;not null;default:1"`
	StudentDocument      datatypes.JSON `gorm:"column:student_document;not null"`

	StudentCreatedAt time.Time      `gorm:"column:student_created_at;not null"`
	StudentUpdatedAt *time.Time     `gorm:"column:student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index"`
}

func (StudentModel) TableName() string { return "students" }
