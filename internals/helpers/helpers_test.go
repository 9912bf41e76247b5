package helper

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http/httptest"
	"testing"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "akta-kelahiran-budi", Slugify("  Akta Kelahiran_Budi ", 0))
	assert.Equal(t, "ijazah-sd", Slugify("Ijazah—SD!!", 0))
	assert.Equal(t, "cafe", Slugify("Café", 0))
	assert.Equal(t, "item", Slugify("###", 0))
	assert.Equal(t, "abc", Slugify("abc-def", 3))
}

func TestBuildPaginationFromPage(t *testing.T) {
	p := BuildPaginationFromPage(45, 2, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	empty := BuildPaginationFromPage(0, 1, 20)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasNext)
}

func TestResolvePaging(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		p := ResolvePaging(c, 20, 100)
		return c.SendString(fmt.Sprintf("%d/%d/%d", p.Page, p.PerPage, p.Offset))
	})

	cases := map[string]string{
		"/":                                     "1/20/0",
		"/?page=3&per_page=10":                  "3/10/20",
		"/?page=-1&limit=500":                   "1/100/0",
		"/?page=abc&per_page=x":                 "1/20/0",
		"/?page=922337203685477580&per_page=20": fmt.Sprintf("%d/20/%d", math.MaxInt32/20+1, (math.MaxInt32/20)*20),
	}
	for url, want := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", url, nil))
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, want, string(body), url)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("save: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsUniqueViolation(&mysqlDriver.MySQLError{Number: 1062}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestFiberErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: FiberErrorHandler})
	app.Get("/", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusForbidden, "tidak boleh")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"success":false,"message":"tidak boleh","error_code":"FORBIDDEN"}`, string(body))
}
