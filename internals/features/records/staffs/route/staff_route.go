// file: internals/features/records/staffs/route/staff_route.go
package route

import (
	"context"
	"time"

	"eduarchive_backend/internals/features/records/handler"
	"eduarchive_backend/internals/features/records/staffs/record"
	"eduarchive_backend/internals/features/records/staffs/repository"
	"eduarchive_backend/internals/features/records/wizard"
	"eduarchive_backend/internals/helpers/storage"

	"github.com/gofiber/fiber/v2"
)

// StaffRoutes memasang /staffs dan mengembalikan job reaper milik pegawai.
func StaffRoutes(api fiber.Router, infra handler.Infra) ([]storage.ReapJob, error) {
	schema, err := record.NewSchema()
	if err != nil {
		return nil, err
	}

	var (
		repo wizard.Repository[record.StaffRecord]
		jobs []storage.ReapJob
	)
	if infra.DB != nil {
		gr := repository.NewStaffRepository(infra.DB)
		repo = gr
		jobs = append(jobs, storage.ReapJob{
			Name: "purge:" + record.Entity,
			Run: func(ctx context.Context, _ time.Time) (int, error) {
				return gr.PurgeDeleted(ctx, time.Now().Add(-handler.PurgeAfter))
			},
		})
	} else {
		repo = wizard.NewMemoryRepository(record.SearchText, record.UniqueKey)
	}

	sessions := wizard.NewSessionStore[record.StaffRecord](infra.Redis, record.Entity, infra.SessionTTL)
	engine := wizard.NewEngine(schema, repo, sessions, infra.Staging, infra.Uploader, record.SchemaVersion, infra.Log)
	jobs = append(jobs, engine.SweepJob())

	handler.Mount(api.Group("/staffs"),
		handler.NewFormController(engine, infra.MaxUpload, infra.Log),
		handler.NewRecordController(repo, schema, infra.Log),
		infra.Guards,
	)
	return jobs, nil
}
