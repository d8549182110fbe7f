package start

import (
	"fmt"

	"hostpatrol/pkg/core/consts"
	"hostpatrol/pkg/core/fiber_handle"
	"hostpatrol/pkg/core/logger"

	"github.com/gofiber/fiber/v2"
	recover2 "github.com/gofiber/fiber/v2/middleware/recover"
)

func GetApp() *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:      "hostpatrol",
			BodyLimit:    10 * 1024 * 1024,
			ErrorHandler: fiber_handle.ErrHandler,
		})
	app.Use(fiber_handle.Cors())
	app.Use(recover2.New(recover2.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			logger.GetLogger().WithEntryName("Recover").
				WithField("path", c.Path()).
				WithField(consts.TraceKey, c.Locals(consts.TraceKey)).
				Error(fmt.Sprintf("请求崩溃: %+v", e))
		},
	}))
	app.Use(fiber_handle.HealthCheck(fiber_handle.HealthCheckConfig{Path: "/health"}))
	app.Use(fiber_handle.NewTrace())
	app.Use(logger.NewApiLogger(logger.Config{Logger: logger.GetLogger()}))
	return app
}
