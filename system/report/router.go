package report

import (
	controller "hostpatrol/system/report/external/http"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes trigger 为手动生成报告时调用的巡检入口
func RegisterRoutes(m *Module, api fiber.Router, trigger controller.Trigger) {
	controller.NewReportController(m.internalApp, trigger).RegisterRoutes(api)
}
