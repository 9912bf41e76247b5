// file: internals/features/records/students/route/student_route.go
package route

import (
	"context"
	"time"

	"eduarchive_backend/internals/features/records/handler"
	"eduarchive_backend/internals/features/records/students/record"
	"eduarchive_backend/internals/features/records/students/repository"
	"eduarchive_backend/internals/features/records/wizard"
	"eduarchive_backend/internals/helpers/storage"

	"github.com/gofiber/fiber/v2"
)

// StudentRoutes memasang /students (record + sesi form) dan mengembalikan job reaper milik siswa.
func StudentRoutes(api fiber.Router, infra handler.Infra, regions record.RegionChecker) ([]storage.ReapJob, error) {
	schema, err := record.NewSchema(regions)
	if err != nil {
		return nil, err
	}

	var (
		repo wizard.Repository[record.StudentRecord]
		jobs []storage.ReapJob
	)
	if infra.DB != nil {
		gr := repository.NewStudentRepository(infra.DB)
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

	sessions := wizard.NewSessionStore[record.StudentRecord](infra.Redis, record.Entity, infra.SessionTTL)
	engine := wizard.NewEngine(schema, repo, sessions, infra.Staging, infra.Uploader, record.SchemaVersion, infra.Log)
	jobs = append(jobs, engine.SweepJob())

	handler.Mount(api.Group("/students"),
		handler.NewFormController(engine, infra.MaxUpload, infra.Log),
		handler.NewRecordController(repo, schema, infra.Log),
		infra.Guards,
	)
	return jobs, nil
}
