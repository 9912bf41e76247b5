package middlewares

import (
	"net/http/httptest"
	"testing"
	"time"

	"eduarchive_backend/internals/configs"
	"eduarchive_backend/internals/middlewares/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestContext(t *testing.T) {
	app := fiber.New()
	app.Use(RequestContext(time.Second))
	var hasDeadline bool
	app.Get("/", func(c *fiber.Ctx) error {
		_, hasDeadline = c.UserContext().Deadline()
		return c.SendString(c.Locals("reqid").(string))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.True(t, hasDeadline)

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"), "id dari klien dipakai ulang")
}

func TestRecoveryAndRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	app := fiber.New()
	app.Use(RecoveryMiddleware(log))
	app.Use(logger.RequestLogger(log))
	app.Get("/panik", func(c *fiber.Ctx) error { panic("boom") })
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/panik", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, 1, logs.FilterMessage("🔥 panic").Len())

	_, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/ok", nil), -1)
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/tidak-ada", nil), -1)
	require.NoError(t, err)

	req := logs.FilterMessage("[REQ]").All()
	require.Len(t, req, 2)
	assert.Equal(t, zapcore.InfoLevel, req[0].Level)
	assert.Equal(t, zapcore.WarnLevel, req[1].Level)
	assert.EqualValues(t, fiber.StatusNotFound, req[1].ContextMap()["status"])
}

func TestSetupMiddlewares_Cors(t *testing.T) {
	cfg := &configs.Config{
		Server: configs.ServerConfig{RequestTimeout: time.Second, AllowOrigins: "https://arsip.sekolah.id"},
		Log:    configs.LogConfig{Format: "json"},
	}
	app := fiber.New()
	SetupMiddlewares(app, cfg, zap.NewNop())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest(fiber.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://arsip.sekolah.id")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "https://arsip.sekolah.id", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", resp.Header.Get(fiber.HeaderAccessControlAllowCredentials))

	req = httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://lain.example")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Empty(t, resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
