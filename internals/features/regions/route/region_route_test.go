package route

import (
	"io"
	"net/http/httptest"
	"testing"

	"eduarchive_backend/internals/features/regions/data"
	"eduarchive_backend/internals/features/regions/service"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionPublicRoutes(t *testing.T) {
	tree, err := data.Embedded()
	require.NoError(t, err)
	app := fiber.New()
	RegionPublicRoutes(app.Group("/api/public"), service.NewStaticLookup(tree))

	cases := []struct {
		path  string
		code  int
		count int
	}{
		{"/api/public/regions/provinces", fiber.StatusOK, 3},
		{"/api/public/regions/provinces/31/regencies", fiber.StatusOK, 2},
		{"/api/public/regions/regencies/31.71/districts", fiber.StatusOK, 2},
		{"/api/public/regions/districts/31.71.01/villages", fiber.StatusOK, 2},
		{"/api/public/regions/provinces/99/regencies", fiber.StatusNotFound, 0},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tc.path, nil), -1)
			require.NoError(t, err)
			require.Equal(t, tc.code, resp.StatusCode)
			assert.Equal(t, "public, max-age=3600", resp.Header.Get(fiber.HeaderCacheControl))

			raw, _ := io.ReadAll(resp.Body)
			var body struct {
				Success bool             `json:"success"`
				Data    []service.Region `json:"data"`
			}
			require.NoError(t, sonic.Unmarshal(raw, &body))
			assert.Equal(t, tc.code == fiber.StatusOK, body.Success)
			assert.Len(t, body.Data, tc.count)
		})
	}
}
