package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RAILWAY_ENVIRONMENT", "test")
	t.Setenv("JWT_SECRET", "rahasia")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "rahasia", cfg.Auth.JWTSecret)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxUploadBytes())
	assert.Equal(t, 1600, cfg.Upload.ImageMaxW)
}

func TestLoad_LegacyEnvNames(t *testing.T) {
	t.Setenv("RAILWAY_ENVIRONMENT", "test")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("PORT", "8080")
	t.Setenv("IMAGE_WEBP_MAX_W", "800")
	t.Setenv("ALI_OSS_BUCKET", "arsip")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 800, cfg.Upload.ImageMaxW)
	assert.Equal(t, "arsip", cfg.Storage.OSSBucket)
	assert.NotEmpty(t, cfg.Auth.JWTSecret, "secret development dipakai bila kosong")
}

func TestLoad_RejectsUnknownDrivers(t *testing.T) {
	t.Setenv("RAILWAY_ENVIRONMENT", "test")

	t.Run("db", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "sqlite")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("storage", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "ftp")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("redis tanpa addr", func(t *testing.T) {
		t.Setenv("SESSION_STORE", "redis")
		_, err := Load()
		assert.Error(t, err)
	})
}
