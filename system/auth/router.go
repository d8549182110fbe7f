package auth

import (
	controller "hostpatrol/system/auth/external/http"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(m *Module, api fiber.Router) {
	controller.NewAuthController(m.internalApp).RegisterRoutes(api)
}
