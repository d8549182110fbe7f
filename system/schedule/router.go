package schedule

import (
	controller "hostpatrol/system/schedule/external/http"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(m *Module, api fiber.Router) {
	controller.NewScheduleController(m.internalApp, m.tasks).RegisterRoutes(api)
}
