// file: internals/features/records/staffs/model/staff_model.go
package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
===========================

	STAFFS (record pegawai)
	NIP nullable: unique hanya untuk yang punya NIP.
	===========================
*/
type StaffModel struct {
	StaffID            string         `gorm:"column:staff_id;primaryKey;type:varchar(36)"`
	StaffNIP           *string        `gorm:"column:staff_nip;type:varchar(18);uniqueIndex:uq_staffs_nip"`
	StaffNIK           string         `gorm:"column:staff_nik;type:varchar(16);index"`
	StaffNama          string         `gorm:"column:staff_nama;type:varchar(120);not null;index"`
	StaffStatusKepeg   string         `gorm:"column:staff_status_kepegawaian;type:varchar(20)"`
	StaffStatus        string         `gorm:"column:staff_status;type:varchar(20);not null;index"`
	StaffSchemaVersion int            `gorm:"column:staff_schema_version;not null;default:1"`
	StaffDocument      datatypes.JSON `gorm:"column:staff_document;not null"`

	StaffCreatedAt time.Time      `gorm:"column:staff_created_at;not null"`
	StaffUpdatedAt *time.Time     `gorm:"column:staff_updated_at"`
	StaffDeletedAt gorm.DeletedAt `gorm:"column:staff_deleted_at;index"`
}

func (StaffModel) TableName() string { return "staffs" }
