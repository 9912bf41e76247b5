// file: internals/features/records/handler/infra.go
package handler

import (
	"time"

	"eduarchive_backend/internals/helpers/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra kebutuhan bersama tiap entitas record (disusun di main.go).
type Infra struct {
	DB         *gorm.DB      // nil = repository memory
	Redis      *redis.Client // nil = session store memory
	SessionTTL time.Duration
	Staging    storage.Staging
	Uploader   *storage.Uploader
	MaxUpload  int64
	Guards     Guards
	Log        *zap.Logger
}

// PurgeAfter umur soft-delete sebelum record dihapus permanen oleh reaper.
const PurgeAfter = 30 * 24 * time.Hour
