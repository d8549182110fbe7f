package app

import (
	"strings"
	"time"

	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/core/start"

	"github.com/gofiber/fiber/v2"
)

// GetApp 创建 HTTP 服务，staticDir 非空时同时托管前端页面
func GetApp(staticDir string) *fiber.App {
	app := start.GetApp()

	RegisterStaticFiles(app, staticDir, "/")

	return app
}

// RegisterStaticFiles 注册前端静态文件，未命中的页面路由回落到 index.html
func RegisterStaticFiles(app *fiber.App, staticPath string, prefixPath string) {
	if staticPath == "" {
		return
	}

	app.Static(prefixPath, staticPath, fiber.Static{
		Compress:      true,
		ByteRange:     true,
		Browse:        false,
		Index:         "index.html",
		CacheDuration: 10 * time.Minute,
	})

	// 必须在 API 路由之后才会命中，/api 与 /health 交给后续路由
	app.Get("*", func(c *fiber.Ctx) error {
		path := c.Path()
		if strings.HasPrefix(path, "/api") || strings.HasPrefix(path, "/health") {
			return c.Next()
		}

		switch getFileExtension(path) {
		case ".js", ".css", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico",
			".woff", ".woff2", ".ttf", ".eot", ".map":
			return c.Next()
		}

		return c.SendFile(staticPath + "/index.html")
	})

	logger.GetLogger().WithEntryName("Static").
		WithField("path", staticPath).
		WithField("prefix", prefixPath).
		Info("已注册静态文件服务")
}

func getFileExtension(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i:]
		}
		if path[i] == '/' {
			break
		}
	}
	return ""
}
