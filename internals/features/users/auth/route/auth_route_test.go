package route

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"eduarchive_backend/internals/features/users/auth/controller"
	"eduarchive_backend/internals/features/users/auth/service"
	helper "eduarchive_backend/internals/helpers"
	authMw "eduarchive_backend/internals/middlewares/auth"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
	Data    map[string]any      `json:"data"`
}

func setup(t *testing.T) *fiber.App {
	t.Helper()
	accs, err := service.DevAccounts()
	require.NoError(t, err)
	cfg := service.TokenConfig{Secret: "rahasia-uji", Issuer: "eduarchive", TTL: time.Hour}
	svc := service.NewAuthService(cfg, accs, nil)

	app := fiber.New(fiber.Config{ErrorHandler: helper.FiberErrorHandler})
	api := app.Group("/api")
	ac := controller.NewAuthController(svc, zap.NewNop())
	AuthPublicRoutes(api, ac)
	AuthProtectedRoutes(api, ac, authMw.AuthMiddleware(authMw.Options{
		Secret:  cfg.Secret,
		Issuer:  cfg.Issuer,
		Revoked: svc.Blacklist,
	}))
	return app
}

func send(t *testing.T, app *fiber.App, method, path, token, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	require.NoError(t, sonic.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func TestAuthFlow(t *testing.T) {
	app := setup(t)

	code, env := send(t, app, fiber.MethodPost, "/api/auth/login", "", `{"username":"Admin","password":"admin123"}`)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	token, _ := env.Data["access_token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, "Bearer", env.Data["token_type"])

	code, env = send(t, app, fiber.MethodGet, "/api/auth/me", token, "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "admin", env.Data["username"])
	assert.Equal(t, "admin", env.Data["role"])

	code, _ = send(t, app, fiber.MethodPost, "/api/auth/logout", token, "")
	require.Equal(t, fiber.StatusOK, code)

	code, env = send(t, app, fiber.MethodGet, "/api/auth/me", token, "")
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.False(t, env.Success)
}

func TestLogin_Rejects(t *testing.T) {
	app := setup(t)

	code, env := send(t, app, fiber.MethodPost, "/api/auth/login", "", `{"username":"admin"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.Equal(t, []string{"wajib diisi"}, env.Errors["password"])

	code, _ = send(t, app, fiber.MethodPost, "/api/auth/login", "", `{"username":"admin","password":"salah"}`)
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = send(t, app, fiber.MethodPost, "/api/auth/login", "", `{bukan json`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = send(t, app, fiber.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, code)
}
