package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"eduarchive_backend/internals/configs"
)

// NewBlobStoreFromConfig memilih implementasi sesuai STORAGE_DRIVER.
func NewBlobStoreFromConfig(ctx context.Context, cfg configs.StorageConfig, log *zap.Logger) (BlobStore, error) {
	if log == nil {
		log = zap.L()
	}
	switch cfg.Driver {
	case "local", "":
		return NewLocalStore(cfg.LocalDir, cfg.PublicBase)
	case "oss":
		return NewOSSStore(cfg, log)
	case "minio":
		return NewMinIOStore(ctx, cfg, log)
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("storage driver tidak dikenal: %s", cfg.Driver)
	}
}
