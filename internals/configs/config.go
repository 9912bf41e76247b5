package configs

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Upload     UploadConfig     `mapstructure:"upload"`
	Session    SessionConfig    `mapstructure:"session"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Suggestion SuggestionConfig `mapstructure:"suggestion"`
	Log        LogConfig        `mapstructure:"log"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	RunSeeds    bool   `mapstructure:"run_seeds"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowOrigins    string        `mapstructure:"allow_origins"`
}

// Driver: "postgres", "mysql", atau "memory" (tanpa DB, untuk demo/dev)
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Driver blob store: "local", "oss", "minio", "s3"
type StorageConfig struct {
	Driver     string `mapstructure:"driver"`
	Prefix     string `mapstructure:"prefix"`
	LocalDir   string `mapstructure:"local_dir"`
	PublicBase string `mapstructure:"public_base"`

	OSSEndpoint      string `mapstructure:"oss_endpoint"`
	OSSAccessKey     string `mapstructure:"oss_access_key"`
	OSSSecretKey     string `mapstructure:"oss_secret_key"`
	OSSSecurityToken string `mapstructure:"oss_security_token"`
	OSSBucket        string `mapstructure:"oss_bucket"`

	MinIOEndpoint  string `mapstructure:"minio_endpoint"`
	MinIOAccessKey string `mapstructure:"minio_access_key"`
	MinIOSecretKey string `mapstructure:"minio_secret_key"`
	MinIOBucket    string `mapstructure:"minio_bucket"`
	MinIOUseSSL    bool   `mapstructure:"minio_use_ssl"`

	S3Bucket   string `mapstructure:"s3_bucket"`
	S3Region   string `mapstructure:"s3_region"`
	S3Endpoint string `mapstructure:"s3_endpoint"`
	S3Key      string `mapstructure:"s3_access_key"`
	S3Secret   string `mapstructure:"s3_secret_key"`

	StagingDir     string        `mapstructure:"staging_dir"`
	StagingTTL     time.Duration `mapstructure:"staging_ttl"`
	ReaperSchedule string        `mapstructure:"reaper_schedule"`
	ReaperDryRun   bool          `mapstructure:"reaper_dry_run"`
}

type UploadConfig struct {
	MaxSizeMB      int     `mapstructure:"max_size_mb"`
	ImageMaxW      int     `mapstructure:"image_max_w"`
	ImageMaxH      int     `mapstructure:"image_max_h"`
	ImageQuality   float32 `mapstructure:"image_quality"`
	ImageTargetKB  int     `mapstructure:"image_target_kb"`
	ImageMinQ      float32 `mapstructure:"image_min_q"`
	ImageMaxQ      float32 `mapstructure:"image_max_q"`
	ImageTolKB     int     `mapstructure:"image_tolerance_kb"`
	ImageMinW      int     `mapstructure:"image_min_w"`
	ImageMinH      int     `mapstructure:"image_min_h"`
	ImageScaleStep float32 `mapstructure:"image_scale_step"`
}

// Store: "memory" atau "redis"
type SessionConfig struct {
	Store string        `mapstructure:"store"`
	TTL   time.Duration `mapstructure:"ttl"`
}

type AuthConfig struct {
	JWTSecret   string        `mapstructure:"jwt_secret"`
	TokenExpire time.Duration `mapstructure:"token_expire"`
	Issuer      string        `mapstructure:"issuer"`
	// format: "username:bcrypt-hash:role;username2:..."
	Users string `mapstructure:"users"`
}

type SuggestionConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// Load membaca .env (kalau ada) lalu menyusun Config dari ENV + default.
func Load() (*Config, error) {
	LoadEnv()

	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnvVariables(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "eduarchive")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.run_seeds", false)

	v.SetDefault("server.port", "3000")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 90*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.allow_origins", "http://localhost:5173, http://localhost:3000")

	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "eduarchive")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_idle_time", 60*time.Second)
	v.SetDefault("database.conn_max_lifetime", 10*time.Minute)
	v.SetDefault("database.slow_threshold", 200*time.Millisecond)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.prefix", "uploads")
	v.SetDefault("storage.local_dir", "./storage/public")
	v.SetDefault("storage.public_base", "/files")
	v.SetDefault("storage.oss_endpoint", "")
	v.SetDefault("storage.oss_access_key", "")
	v.SetDefault("storage.oss_secret_key", "")
	v.SetDefault("storage.oss_security_token", "")
	v.SetDefault("storage.oss_bucket", "")
	v.SetDefault("storage.minio_endpoint", "")
	v.SetDefault("storage.minio_access_key", "")
	v.SetDefault("storage.minio_secret_key", "")
	v.SetDefault("storage.minio_bucket", "")
	v.SetDefault("storage.minio_use_ssl", false)
	v.SetDefault("storage.s3_bucket", "")
	v.SetDefault("storage.s3_region", "ap-southeast-1")
	v.SetDefault("storage.s3_endpoint", "")
	v.SetDefault("storage.s3_access_key", "")
	v.SetDefault("storage.s3_secret_key", "")
	v.SetDefault("storage.staging_dir", "./storage/staging")
	v.SetDefault("storage.staging_ttl", 24*time.Hour)
	v.SetDefault("storage.reaper_schedule", "*/30 * * * *")
	v.SetDefault("storage.reaper_dry_run", false)

	v.SetDefault("upload.max_size_mb", 5)
	v.SetDefault("upload.image_max_w", 1600)
	v.SetDefault("upload.image_max_h", 1600)
	v.SetDefault("upload.image_quality", 80)
	v.SetDefault("upload.image_target_kb", 0)
	v.SetDefault("upload.image_min_q", 45)
	v.SetDefault("upload.image_max_q", 85)
	v.SetDefault("upload.image_tolerance_kb", 8)
	v.SetDefault("upload.image_min_w", 480)
	v.SetDefault("upload.image_min_h", 480)
	v.SetDefault("upload.image_scale_step", 0.85)

	v.SetDefault("session.store", "memory")
	v.SetDefault("session.ttl", 2*time.Hour)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_expire", 12*time.Hour)
	v.SetDefault("auth.issuer", "eduarchive")
	v.SetDefault("auth.users", "")

	v.SetDefault("suggestion.endpoint", "")
	v.SetDefault("suggestion.api_key", "")
	v.SetDefault("suggestion.timeout", 4*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Nama ENV lama tetap didukung (DB_*, JWT_SECRET, ALI_OSS_*, IMAGE_WEBP_*).
func bindEnvVariables(v *viper.Viper) {
	_ = v.BindEnv("app.environment", "APP_ENV", "RAILWAY_ENVIRONMENT")
	_ = v.BindEnv("app.run_seeds", "RUN_SEEDS")
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("server.allow_origins", "CORS_ALLOW_ORIGINS")

	_ = v.BindEnv("database.driver", "DB_DRIVER")
	_ = v.BindEnv("database.host", "DB_HOST")
	_ = v.BindEnv("database.port", "DB_PORT")
	_ = v.BindEnv("database.user", "DB_USER")
	_ = v.BindEnv("database.password", "DB_PASSWORD")
	_ = v.BindEnv("database.name", "DB_NAME")
	_ = v.BindEnv("database.sslmode", "DB_SSLMODE")

	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")

	_ = v.BindEnv("storage.driver", "STORAGE_DRIVER")
	_ = v.BindEnv("storage.public_base", "STORAGE_PUBLIC_BASE", "ALI_OSS_PUBLIC_BASE")
	_ = v.BindEnv("storage.oss_endpoint", "ALI_OSS_ENDPOINT")
	_ = v.BindEnv("storage.oss_access_key", "ALI_OSS_ACCESS_KEY")
	_ = v.BindEnv("storage.oss_secret_key", "ALI_OSS_SECRET_KEY")
	_ = v.BindEnv("storage.oss_security_token", "ALI_OSS_SECURITY_TOKEN")
	_ = v.BindEnv("storage.oss_bucket", "ALI_OSS_BUCKET")
	_ = v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	_ = v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	_ = v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	_ = v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")
	_ = v.BindEnv("storage.minio_use_ssl", "MINIO_USE_SSL")
	_ = v.BindEnv("storage.s3_bucket", "S3_BUCKET")
	_ = v.BindEnv("storage.s3_region", "AWS_REGION")
	_ = v.BindEnv("storage.s3_endpoint", "S3_ENDPOINT")
	_ = v.BindEnv("storage.s3_access_key", "AWS_ACCESS_KEY_ID")
	_ = v.BindEnv("storage.s3_secret_key", "AWS_SECRET_ACCESS_KEY")
	_ = v.BindEnv("storage.reaper_schedule", "CRON_SCHEDULE")
	_ = v.BindEnv("storage.reaper_dry_run", "DRY_RUN")

	_ = v.BindEnv("upload.image_max_w", "IMAGE_WEBP_MAX_W")
	_ = v.BindEnv("upload.image_max_h", "IMAGE_WEBP_MAX_H")
	_ = v.BindEnv("upload.image_quality", "IMAGE_WEBP_QUALITY")
	_ = v.BindEnv("upload.image_target_kb", "IMAGE_WEBP_TARGET_KB")
	_ = v.BindEnv("upload.image_min_q", "IMAGE_WEBP_MIN_Q")
	_ = v.BindEnv("upload.image_max_q", "IMAGE_WEBP_MAX_Q")
	_ = v.BindEnv("upload.image_tolerance_kb", "IMAGE_WEBP_TOLERANCE_KB")
	_ = v.BindEnv("upload.image_min_w", "IMAGE_WEBP_MIN_W")
	_ = v.BindEnv("upload.image_min_h", "IMAGE_WEBP_MIN_H")
	_ = v.BindEnv("upload.image_scale_step", "IMAGE_WEBP_SCALE_STEP")

	_ = v.BindEnv("session.store", "SESSION_STORE")
	_ = v.BindEnv("session.ttl", "SESSION_TTL")

	_ = v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("auth.users", "AUTH_USERS")

	_ = v.BindEnv("suggestion.endpoint", "SUGGESTION_ENDPOINT")
	_ = v.BindEnv("suggestion.api_key", "SUGGESTION_API_KEY")

	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("log.format", "LOG_FORMAT")
}

func (c *Config) check() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "memory":
	default:
		return fmt.Errorf("DB_DRIVER tidak dikenal: %q", c.Database.Driver)
	}
	switch c.Storage.Driver {
	case "local", "oss", "minio", "s3":
	default:
		return fmt.Errorf("STORAGE_DRIVER tidak dikenal: %q", c.Storage.Driver)
	}
	switch c.Session.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("SESSION_STORE tidak dikenal: %q", c.Session.Store)
	}
	if c.Session.Store == "redis" && strings.TrimSpace(c.Redis.Addr) == "" {
		return fmt.Errorf("SESSION_STORE=redis butuh REDIS_ADDR")
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		log.Println("❌ JWT_SECRET belum diset! memakai secret development")
		c.Auth.JWTSecret = "eduarchive-dev-secret"
	}
	if c.Upload.MaxSizeMB <= 0 {
		c.Upload.MaxSizeMB = 5
	}
	return nil
}

// MaxUploadBytes batas ukuran satu berkas.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxSizeMB) * 1024 * 1024
}

func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.App.Environment)
	return env == "production" || env == "prod"
}
