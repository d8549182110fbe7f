package server

import (
	controller "hostpatrol/system/server/external/http"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册 server 组件的所有 HTTP 路由，admin 已挂载管理员鉴权
func RegisterRoutes(m *Module, admin fiber.Router) {
	controller.NewServerController(m.internalApp).RegisterRoutes(admin)
	controller.NewServiceController(m.internalApp).RegisterRoutes(admin)
}
