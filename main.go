package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"eduarchive_backend/internals/configs"
	database "eduarchive_backend/internals/databases"
	staffModel "eduarchive_backend/internals/features/records/staffs/model"
	studentModel "eduarchive_backend/internals/features/records/students/model"
	regionData "eduarchive_backend/internals/features/regions/data"
	regionModel "eduarchive_backend/internals/features/regions/model"
	regionService "eduarchive_backend/internals/features/regions/service"
	suggestionService "eduarchive_backend/internals/features/suggestions/service"
	authModel "eduarchive_backend/internals/features/users/auth/model"
	authScheduler "eduarchive_backend/internals/features/users/auth/scheduler"
	authService "eduarchive_backend/internals/features/users/auth/service"
	helper "eduarchive_backend/internals/helpers"
	"eduarchive_backend/internals/helpers/storage"
	middlewares "eduarchive_backend/internals/middlewares"
	routes "eduarchive_backend/internals/route"
	"eduarchive_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("❌ config: %v", err)
	}
	logger, err := configs.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("❌ logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// 🔌 DB connect + pool + warm-up
	db, err := database.ConnectDB(cfg.Database, logger)
	if err != nil {
		logger.Fatal("DB", zap.Error(err))
	}
	database.TunePool(db, cfg.Database)
	database.WarmUpQueries(db)
	models := append([]any{&studentModel.StudentModel{}, &staffModel.StaffModel{}}, regionModel.All()...)
	if err := database.AutoMigrate(db, models...); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}
	if db != nil && cfg.App.RunSeeds {
		if err := seeds.RunAllSeeds(db, logger); err != nil {
			logger.Fatal("seed", zap.Error(err))
		}
	}

	// 🗺️ wilayah: tabel DB bila ada, selain itu data embed
	var regions regionService.Lookup
	if db != nil {
		regions = regionService.NewGormLookup(db)
	} else {
		tree, err := regionData.Embedded()
		if err != nil {
			logger.Fatal("regions", zap.Error(err))
		}
		regions = regionService.NewStaticLookup(tree)
	}

	// 📦 blob store + staging
	ctx := context.Background()
	blobs, err := storage.NewBlobStoreFromConfig(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("storage", zap.Error(err))
	}
	uploader := storage.NewUploader(blobs, cfg.Storage.Prefix, cfg.MaxUploadBytes(), storage.WebPOptionsFromConfig(cfg.Upload), logger)
	staging, err := storage.NewFSStaging(cfg.Storage.StagingDir)
	if err != nil {
		logger.Fatal("staging", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Session.Store == "redis" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		logger.Info("✅ Redis connected.", zap.String("addr", cfg.Redis.Addr))
	}

	// 🔐 akun login
	accounts, err := authModel.ParseAccounts(cfg.Auth.Users)
	if err != nil {
		logger.Fatal("auth", zap.Error(err))
	}
	if len(accounts) == 0 {
		if cfg.IsProduction() {
			logger.Warn("⚠️ AUTH_USERS kosong; tidak ada yang bisa login")
		} else {
			accounts, err = authService.DevAccounts()
			if err != nil {
				logger.Fatal("auth", zap.Error(err))
			}
			logger.Info("🔑 akun development aktif: admin, operator, viewer")
		}
	}
	blacklist := authService.NewTokenBlacklist()
	auth := authService.NewAuthService(authService.TokenConfig{
		Secret: cfg.Auth.JWTSecret,
		Issuer: cfg.Auth.Issuer,
		TTL:    cfg.Auth.TokenExpire,
	}, accounts, blacklist)

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ErrorHandler:          helper.FiberErrorHandler,
		BodyLimit:             int(cfg.MaxUploadBytes()) + 1<<20,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		IdleTimeout:           cfg.Server.IdleTimeout,
	})
	middlewares.SetupMiddlewares(app, cfg, logger)

	if cfg.Storage.Driver == "local" {
		app.Static(cfg.Storage.PublicBase, cfg.Storage.LocalDir)
	}

	// ✅ Routes
	jobs, err := routes.SetupRoutes(app, routes.Deps{
		Cfg:        cfg,
		DB:         db,
		Redis:      rdb,
		Staging:    staging,
		Uploader:   uploader,
		Regions:    regions,
		Auth:       auth,
		Suggestion: suggestionService.NewService(cfg.Suggestion.Endpoint, cfg.Suggestion.APIKey, cfg.Suggestion.Timeout, logger),
		Log:        logger,
	})
	if err != nil {
		logger.Fatal("routes", zap.Error(err))
	}

	// ⏱ reaper: staging, sesi ditinggal, soft-delete lama, blacklist token
	jobs = append(jobs, storage.StagingJob(staging), authScheduler.BlacklistCleanupJob(blacklist))
	reaper, err := storage.StartReaperCron(logger, storage.ReaperConfig{
		Schedule:  cfg.Storage.ReaperSchedule,
		Retention: cfg.Storage.StagingTTL,
		DryRun:    cfg.Storage.ReaperDryRun,
	}, jobs...)
	if err != nil {
		logger.Fatal("reaper", zap.Error(err))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Server.Port
	}

	// Start server non-blocking
	go func() {
		logger.Info("✅ Listening", zap.String("port", port), zap.String("env", cfg.App.Environment))
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("🛑 shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	_ = app.ShutdownWithContext(shutdownCtx)
	<-reaper.Stop().Done()
	if rdb != nil {
		_ = rdb.Close()
	}
	database.Close(db)
}
