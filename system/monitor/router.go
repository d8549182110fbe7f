package monitor

import (
	controller "hostpatrol/system/monitor/external/http"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(m *Module, api fiber.Router) {
	controller.NewLogController(m.internalApp).RegisterRoutes(api)
	controller.NewMonitorController(m.internalApp).RegisterRoutes(api)
}
