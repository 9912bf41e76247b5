// file: internals/features/records/staffs/repository/staff_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eduarchive_backend/internals/features/records/staffs/model"
	"eduarchive_backend/internals/features/records/staffs/record"
	"eduarchive_backend/internals/features/records/wizard"
	helper "eduarchive_backend/internals/helpers"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StaffRepository struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{DB: db, now: time.Now}
}

var _ wizard.Repository[record.StaffRecord] = (*StaffRepository)(nil)

func (r *StaffRepository) List(ctx context.Context, f wizard.ListFilter) ([]record.StaffRecord, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.StaffModel{})
	if s := strings.TrimSpace(f.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(staff_nama) LIKE ? OR staff_nip LIKE ?", like, like)
	}
	if f.Status != "" {
		cond, labels := wizard.StatusClause("staff_status", wizard.NormalizeStatus(f.Status))
		q = q.Where(cond, labels)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.StaffModel
	q = q.Order("staff_created_at DESC").Offset(f.Offset)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]record.StaffRecord, 0, len(rows))
	for i := range rows {
		rec, err := ToRecord(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *rec)
	}
	return out, total, nil
}

func (r *StaffRepository) Get(ctx context.Context, id string) (*record.StaffRecord, error) {
	var row model.StaffModel
	if err := r.DB.WithContext(ctx).First(&row, "staff_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wizard.ErrRecordNotFound
		}
		return nil, err
	}
	return ToRecord(&row)
}

func (r *StaffRepository) Save(ctx context.Context, rec *record.StaffRecord) (*record.StaffRecord, error) {
	out := *rec
	now := r.now()

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		isNew := out.ID == ""
		if isNew {
			out.ID = uuid.NewString()
			out.CreatedAt = &now
			out.UpdatedAt = nil
		} else {
			var cur model.StaffModel
			if err := tx.Select("staff_id", "staff_created_at").
				First(&cur, "staff_id = ?", out.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return wizard.ErrRecordNotFound
				}
				return err
			}
			created := cur.StaffCreatedAt
			out.CreatedAt = &created
			out.UpdatedAt = &now
		}

		if nip := record.UniqueKey(&out); nip != "" {
			var n int64
			if err := tx.Model(&model.StaffModel{}).
				Where("staff_nip = ? AND staff_id <> ?", nip, out.ID).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return wizard.ErrDuplicate
			}
			if err := tx.Unscoped().
				Where("staff_nip = ? AND staff_deleted_at IS NOT NULL", nip).
				Delete(&model.StaffModel{}).Error; err != nil {
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

func (r *StaffRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("staff_id = ?", id).Delete(&model.StaffModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return wizard.ErrRecordNotFound
	}
	return nil
}

func (r *StaffRepository) PurgeDeleted(ctx context.Context, cutoff time.Time) (int, error) {
	res := r.DB.WithContext(ctx).Unscoped().
		Where("staff_deleted_at IS NOT NULL AND staff_deleted_at < ?", cutoff).
		Delete(&model.StaffModel{})
	return int(res.RowsAffected), res.Error
}

func FromRecord(rec *record.StaffRecord) (*model.StaffModel, error) {
	doc, err := sonic.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode dokumen pegawai: %w", err)
	}
	row := &model.StaffModel{
		StaffID:            rec.ID,
		StaffNIK:           strings.TrimSpace(rec.DataPribadi.NIK),
		StaffNama:          strings.TrimSpace(rec.DataPribadi.Nama),
		StaffStatusKepeg:   rec.Kepegawaian.StatusKepegawaian,
		StaffStatus:        string(rec.Status),
		StaffSchemaVersion: rec.SchemaVersion,
		StaffDocument:      datatypes.JSON(doc),
		StaffUpdatedAt:     rec.UpdatedAt,
	}
	if nip := record.UniqueKey(rec); nip != "" {
		row.StaffNIP = &nip
	}
	if rec.CreatedAt != nil {
		row.StaffCreatedAt = *rec.CreatedAt
	}
	if row.StaffSchemaVersion == 0 {
		row.StaffSchemaVersion = record.SchemaVersion
	}
	return row, nil
}

func ToRecord(row *model.StaffModel) (*record.StaffRecord, error) {
	rec, err := wizard.Decode[record.StaffRecord](record.Migrator, row.StaffDocument, row.StaffSchemaVersion)
	if err != nil {
		return nil, fmt.Errorf("pegawai %s: %w", row.StaffID, err)
	}
	created := row.StaffCreatedAt
	rec.ID = row.StaffID
	rec.Status = wizard.NormalizeStatus(row.StaffStatus)
	rec.SchemaVersion = record.SchemaVersion
	rec.CreatedAt = &created
	rec.UpdatedAt = row.StaffUpdatedAt
	return rec, nil
}
