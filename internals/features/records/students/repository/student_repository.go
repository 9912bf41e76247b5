// file: internals/features/records/students/repository/student_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eduarchive_backend/internals/features/records/students/model"
	"eduarchive_backend/internals/features/records/students/record"
	"eduarchive_backend/internals/features/records/wizard"
	helper "eduarchive_backend/internals/helpers"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StudentRepository implementasi wizard.Repository di atas GORM (postgres / mysql).
type StudentRepository struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db, now: time.Now}
}

var _ wizard.Repository[record.StudentRecord] = (*StudentRepository)(nil)

func (r *StudentRepository) List(ctx context.Context, f wizard.ListFilter) ([]record.StudentRecord, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.StudentModel{})
	if s := strings.TrimSpace(f.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(student_nama) LIKE ? OR student_nisn LIKE ?", like, like)
	}
	if f.Status != "" {
		cond, labels := wizard.StatusClause("student_status", wizard.NormalizeStatus(f.Status))
		q = q.Where(cond, labels)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.StudentModel
	q = q.Order("student_created_at DESC").Offset(f.Offset)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]record.StudentRecord, 0, len(rows))
	for i := range rows {
		rec, err := ToRecord(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *rec)
	}
	return out, total, nil
}

func (r *StudentRepository) Get(ctx context.Context, id string) (*record.StudentRecord, error) {
	var row model.StudentModel
	if err := r.DB.WithContext(ctx).First(&row, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wizard.ErrRecordNotFound
		}
		return nil, err
	}
	return ToRecord(&row)
}

func (r *StudentRepository) Save(ctx context.Context, rec *record.StudentRecord) (*record.StudentRecord, error) {
	out := *rec
	now := r.now()

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		isNew := out.ID == ""
		if isNew {
			out.ID = uuid.NewString()
			out.CreatedAt = &now
			out.UpdatedAt = nil
		} else {
			var cur model.StudentModel
			if err := tx.Select("student_id", "student_created_at").
				First(&cur, "student_id = ?", out.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return wizard.ErrRecordNotFound
				}
				return err
			}
			created := cur.StudentCreatedAt
			out.CreatedAt = &created
			out.UpdatedAt = &now
		}

		if nisn := record.UniqueKey(&out); nisn != "" {
			var n int64
			if err := tx.Model(&model.StudentModel{}).
				Where("student_nisn = ? AND student_id <> ?", nisn, out.ID).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return wizard.ErrDuplicate
			}
			// sisa soft-delete dengan NISN sama dibuang agar unique index tidak bentrok
			if err := tx.Unscoped().
				Where("student_nisn = ? AND student_deleted_at IS NOT NULL", nisn).
				Delete(&model.StudentModel{}).Error; err != nil {
				return err
			}
		}

		row, err := FromRecord(&out)
		if err != nil {
			return err
		}
		if isNew {
			return tx.Create(row).Error
		}
		return tx.Save(row).Error
	})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, wizard.ErrDuplicate
		}
		return nil, err
	}
	return &out, nil
}

func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("student_id = ?", id).Delete(&model.StudentModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return wizard.ErrRecordNotFound
	}
	return nil
}

// PurgeDeleted menghapus permanen record yang sudah soft-delete sebelum cutoff (job reaper).
func (r *StudentRepository) PurgeDeleted(ctx context.Context, cutoff time.Time) (int, error) {
	res := r.DB.WithContext(ctx).Unscoped().
		Where("student_deleted_at IS NOT NULL AND student_deleted_at < ?", cutoff).
		Delete(&model.StudentModel{})
	return int(res.RowsAffected), res.Error
}

/* =========================================================
   Mapping model <-> record
========================================================= */

func FromRecord(rec *record.StudentRecord) (*model.StudentModel, error) {
	doc, err := sonic.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode dokumen siswa: %w", err)
	}
	row := &model.StudentModel{
		StudentID:            rec.ID,
		StudentNISN:          strings.TrimSpace(rec.DataSiswa.NISN),
		StudentNIK:           strings.TrimSpace(rec.DataSiswa.NIK),
		StudentNama:          strings.TrimSpace(rec.DataSiswa.NamaLengkap),
		StudentStatus:        string(rec.Status),
		StudentSchemaVersion: rec.SchemaVersion,
		StudentDocument:      datatypes.JSON(doc),
		StudentUpdatedAt:     rec.UpdatedAt,
	}
	if rec.CreatedAt != nil {
		row.StudentCreatedAt = *rec.CreatedAt
	}
	if row.StudentSchemaVersion == 0 {
		row.StudentSchemaVersion = record.SchemaVersion
	}
	return row, nil
}

// ToRecord membaca dokumen lewat migrator; meta diambil dari kolom.
func ToRecord(row *model.StudentModel) (*record.StudentRecord, error) {
	rec, err := wizard.Decode[record.StudentRecord](record.Migrator, row.StudentDocument, row.StudentSchemaVersion)
	if err != nil {
		return nil, fmt.Errorf("siswa %s: %w", row.StudentID, err)
	}
	created := row.StudentCreatedAt
	rec.ID = row.StudentID
	rec.Status = wizard.NormalizeStatus(row.StudentStatus)
	rec.SchemaVersion = record.SchemaVersion
	rec.CreatedAt = &created
	rec.UpdatedAt = row.StudentUpdatedAt
	return rec, nil
}
