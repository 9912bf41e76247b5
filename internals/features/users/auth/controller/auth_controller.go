// file: internals/features/users/auth/controller/auth_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"eduarchive_backend/internals/features/users/auth/service"
	helper "eduarchive_backend/internals/helpers"
	authMw "eduarchive_backend/internals/middlewares/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthController struct {
	Svc      *service.AuthService
	Log      *zap.Logger
	validate *validator.Validate
}

func NewAuthController(svc *service.AuthService, log *zap.Logger) *AuthController {
	if log == nil {
		log = zap.L()
	}
	return &AuthController{Svc: svc, Log: log.Named("auth"), validate: validator.New()}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := ac.validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := map[string]string{}
			for _, fe := range ve {
				key := strings.ToLower(fe.Field())
				if fe.Tag() == "required" {
					fields[key] = "wajib diisi"
				} else {
					fields[key] = "maksimal " + fe.Param() + " karakter"
				}
			}
			return helper.JsonFieldErrors(c, "Data login tidak lengkap", fields, nil)
		}
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	res, err := ac.Svc.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			ac.Log.Info("🔒 login gagal", zap.String("username", req.Username), zap.String("ip", c.IP()))
			return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
		}
		ac.Log.Error("❌ gagal menerbitkan token", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal login")
	}
	ac.Log.Info("🔓 login", zap.String("username", res.User.Username), zap.String("role", res.User.Role))
	return helper.JsonOK(c, "Login berhasil", res)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	username, _ := c.Locals(authMw.LocUserName).(string)
	if username == "" {
		username, _ = c.Locals(authMw.LocUserID).(string)
	}
	role, _ := c.Locals(authMw.LocUserRole).(string)
	exp, _ := c.Locals(authMw.LocTokenExp).(time.Time)
	return helper.JsonOK(c, "OK", fiber.Map{
		"username":   username,
		"role":       role,
		"expires_at": exp,
	})
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	jti, _ := c.Locals(authMw.LocTokenID).(string)
	exp, _ := c.Locals(authMw.LocTokenExp).(time.Time)
	ac.Svc.Logout(jti, exp)
	return helper.JsonOK(c, "Logout berhasil", nil)
}
