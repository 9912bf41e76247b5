package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"eduarchive_backend/internals/configs"
)

var DB *gorm.DB

// ConnectDB membuka koneksi sesuai DB_DRIVER. Driver "memory" mengembalikan nil tanpa error.
func ConnectDB(cfg configs.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	if log == nil {
		log = zap.L()
	}
	gcfg := &gorm.Config{Logger: configs.NewGormLogger(log, cfg.SlowThreshold)}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		log.Info("🔌 Koneksi ke PostgreSQL...", zap.String("host", cfg.Host))
		dialector = postgres.New(postgres.Config{
			DSN:                  PostgresDSN(cfg),
			PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
		})
	case "mysql":
		log.Info("🔌 Koneksi ke MySQL...", zap.String("host", cfg.Host))
		dialector = mysql.Open(MySQLDSN(cfg))
	case "memory", "":
		log.Info("💾 DB_DRIVER=memory, data hanya disimpan di memori")
		return nil, nil
	default:
		return nil, fmt.Errorf("driver database tidak dikenal: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("gagal konek DB: %w", err)
	}
	DB = db
	log.Info("✅ DB connected.")
	return db, nil
}

// ✅ DSN lengkap + statement_timeout
func PostgresDSN(cfg configs.DatabaseConfig) string {
	port := cfg.Port
	if port == "" {
		port = "5432"
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "require"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=eduarchive&options=-c statement_timeout=5000",
		cfg.User, cfg.Password, cfg.Host, port, cfg.Name, sslmode,
	)
}

func MySQLDSN(cfg configs.DatabaseConfig) string {
	port := cfg.Port
	if port == "" {
		port = "3306"
	}
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=5s",
		cfg.User, cfg.Password, cfg.Host, port, cfg.Name,
	)
}

func TunePool(db *gorm.DB, cfg configs.DatabaseConfig) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		zap.L().Warn("pool tune err", zap.Error(err))
		return
	}
	sqlDB.SetMaxOpenConns(orInt(cfg.MaxOpenConns, 20))
	sqlDB.SetMaxIdleConns(orInt(cfg.MaxIdleConns, 10))
	sqlDB.SetConnMaxIdleTime(orDur(cfg.ConnMaxIdleTime, 60*time.Second))
	sqlDB.SetConnMaxLifetime(orDur(cfg.ConnMaxLifetime, 10*time.Minute))
}

func WarmUpQueries(db *gorm.DB) {
	if db == nil {
		return
	}
	// jalankan ringan supaya koneksi/pool “keisi” & siap
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(db); err != nil {
			zap.L().Warn("warm-up ping err", zap.Error(err))
		}
	}()
}

func Ping(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func orInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func orDur(v, def time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return def
}

// AutoMigrate membuat/menyesuaikan tabel model; no-op untuk driver memory.
func AutoMigrate(db *gorm.DB, models ...any) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
