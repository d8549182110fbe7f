package app

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStaticApp(t *testing.T) *fiber.App {
	t.Helper()
	f := fiber.New()
	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("index"), 0o644))
	RegisterStaticFiles(f, staticDir, "/")
	return f
}

func TestRegisterStaticFiles_DoesNotInterceptAPIRoutes(t *testing.T) {
	f := newStaticApp(t)

	// 在兜底路由之后注册 API
	f.Get("/api/servers", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).SendString("ok")
	})

	resp, err := f.Test(httptest.NewRequest(http.MethodGet, "/api/servers", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestRegisterStaticFiles_SPAFallback(t *testing.T) {
	f := newStaticApp(t)

	resp, err := f.Test(httptest.NewRequest(http.MethodGet, "/dashboard/servers", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "index", string(body))
}

func TestGetFileExtension(t *testing.T) {
	assert.Equal(t, ".js", getFileExtension("/assets/app.js"))
	assert.Equal(t, "", getFileExtension("/v1.2/servers"))
	assert.Equal(t, "", getFileExtension("/"))
}
