package threshold

import (
	controller "hostpatrol/system/threshold/external/http"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(m *Module, api fiber.Router) {
	controller.NewThresholdController(m.internalApp).RegisterRoutes(api)
}
