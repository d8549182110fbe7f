package notification

import (
	controller "hostpatrol/system/notification/external/http"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(m *Module, api fiber.Router) {
	controller.NewChannelController(m.internalApp).RegisterRoutes(api)
}
