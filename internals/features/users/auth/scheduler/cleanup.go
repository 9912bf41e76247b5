// file: internals/features/users/auth/scheduler/cleanup.go
package scheduler

import (
	"eduarchive_backend/internals/features/users/auth/service"
	"eduarchive_backend/internals/helpers/storage"
)

// BlacklistCleanupJob membuang jti yang tokennya sudah expired; dijalankan oleh cron reaper.
func BlacklistCleanupJob(bl *service.TokenBlacklist) storage.ReapJob {
	return storage.ReapJob{Name: "auth:blacklist", Run: bl.Sweep}
}
