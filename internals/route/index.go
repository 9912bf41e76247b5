// file: internals/route/index.go
package routes

import (
	"time"

	"eduarchive_backend/internals/configs"
	"eduarchive_backend/internals/constants"
	"eduarchive_backend/internals/features/records/handler"
	staffRoute "eduarchive_backend/internals/features/records/staffs/route"
	studentRoute "eduarchive_backend/internals/features/records/students/route"
	regionRoute "eduarchive_backend/internals/features/regions/route"
	regionService "eduarchive_backend/internals/features/regions/service"
	suggestionController "eduarchive_backend/internals/features/suggestions/controller"
	suggestionRoute "eduarchive_backend/internals/features/suggestions/route"
	suggestionService "eduarchive_backend/internals/features/suggestions/service"
	uploadController "eduarchive_backend/internals/features/uploads/controller"
	uploadRoute "eduarchive_backend/internals/features/uploads/route"
	authController "eduarchive_backend/internals/features/users/auth/controller"
	authRoute "eduarchive_backend/internals/features/users/auth/route"
	authService "eduarchive_backend/internals/features/users/auth/service"
	"eduarchive_backend/internals/helpers/storage"
	authMw "eduarchive_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var startTime time.Time

// Deps semua komponen yang sudah dibangun di main.go.
type Deps struct {
	Cfg        *configs.Config
	DB         *gorm.DB
	Redis      *redis.Client
	Staging    storage.Staging
	Uploader   *storage.Uploader
	Regions    regionService.Lookup
	Auth       *authService.AuthService
	Suggestion *suggestionService.Service
	Log        *zap.Logger
}

// SetupRoutes memasang semua route; mengembalikan job reaper dari fitur (sesi, purge, blacklist).
func SetupRoutes(app *fiber.App, d Deps) ([]storage.ReapJob, error) {
	startTime = time.Now()
	log := d.Log
	if log == nil {
		log = zap.L()
	}

	BaseRoutes(app, d.DB)

	requireAuth := authMw.AuthMiddleware(authMw.Options{
		Secret:  d.Cfg.Auth.JWTSecret,
		Issuer:  d.Cfg.Auth.Issuer,
		Revoked: d.Auth.Blacklist,
		Log:     log,
	})

	// ===================== AUTH =====================
	log.Info("[INFO] Setting up AuthRoutes...")
	api := app.Group("/api")
	ac := authController.NewAuthController(d.Auth, log)
	authRoute.AuthPublicRoutes(api, ac)
	authRoute.AuthProtectedRoutes(api, ac, requireAuth)

	// ===================== PUBLIC =====================
	log.Info("[INFO] Setting up PUBLIC group...")
	public := api.Group("/public")
	regionRoute.RegionPublicRoutes(public, d.Regions)

	// ===================== ADMIN (login wajib) =====================
	log.Info("[INFO] Setting up ADMIN group...")
	admin := api.Group("/a", requireAuth)
	guards := handler.Guards{
		Write: authMw.OnlyRolesSlice(constants.RoleErrorEditor("arsip"), constants.EditorRoles),
		Admin: authMw.OnlyRolesSlice(constants.RoleErrorAdmin("hapus arsip"), constants.AdminOnly),
	}

	infra := handler.Infra{
		DB:         d.DB,
		Redis:      d.Redis,
		SessionTTL: d.Cfg.Session.TTL,
		Staging:    d.Staging,
		Uploader:   d.Uploader,
		MaxUpload:  d.Cfg.MaxUploadBytes(),
		Guards:     guards,
		Log:        log,
	}

	var jobs []storage.ReapJob

	log.Info("[INFO] Mounting Students routes...")
	sj, err := studentRoute.StudentRoutes(admin, infra, d.Regions)
	if err != nil {
		return nil, err
	}
	jobs = append(jobs, sj...)

	log.Info("[INFO] Mounting Staffs routes...")
	pj, err := staffRoute.StaffRoutes(admin, infra)
	if err != nil {
		return nil, err
	}
	jobs = append(jobs, pj...)

	uploadRoute.UploadRoutes(admin, uploadController.NewUploadController(d.Uploader, d.Cfg.MaxUploadBytes(), log), guards.Write)
	suggestionRoute.SuggestionRoutes(admin, suggestionController.NewSuggestionController(d.Suggestion))

	return jobs, nil
}
