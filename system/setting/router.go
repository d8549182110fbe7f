package setting

import (
	controller "hostpatrol/system/setting/external/http"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(m *Module, api fiber.Router) {
	controller.NewSettingController(m.internalApp).RegisterRoutes(api)
}
