package fiber_handle

import "github.com/gofiber/fiber/v2"

type HealthCheckConfig struct {
	Path string
	// Probe 可选的依赖检查，返回错误时响应 503
	Probe func() error
}

func HealthCheck(config HealthCheckConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() != config.Path {
			return c.Next()
		}
		if config.Probe != nil {
			if err := config.Probe(); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "error": err.Error()})
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "up"})
	}
}
