package router

import (
	"hostpatrol/app"
	"hostpatrol/system/auth"
	"hostpatrol/system/monitor"
	"hostpatrol/system/notification"
	"hostpatrol/system/report"
	"hostpatrol/system/schedule"
	"hostpatrol/system/server"
	"hostpatrol/system/setting"
	"hostpatrol/system/threshold"

	"github.com/gofiber/fiber/v2"
)

// Register 负责集中注册所有 HTTP 路由。
//   - 只依赖 app.App（业务编排入口）和 fiber.App（HTTP Server）。
//   - 不包含业务逻辑，只做分组与路由绑定。
//
// 除 /api/auth/login 外，各组件在自己的分组上挂载管理员鉴权。
func Register(a *app.App, f *fiber.App) {
	api := f.Group("/api")

	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"msg": "ok"})
	})

	auth.RegisterRoutes(a.AuthModule, api)
	server.RegisterRoutes(a.ServerModule, api)
	threshold.RegisterRoutes(a.ThresholdModule, api)
	setting.RegisterRoutes(a.SettingModule, api)
	monitor.RegisterRoutes(a.MonitorModule, api)
	notification.RegisterRoutes(a.NotificationModule, api)
	// 手动生成报告走完整巡检流水线
	report.RegisterRoutes(a.ReportModule, api, a.MonitorModule.Client)
	schedule.RegisterRoutes(a.ScheduleModule, api)
}
