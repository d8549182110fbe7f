package http

import (
	"hostpatrol/base"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/result"
	"hostpatrol/system/setting/internal/app"
	"hostpatrol/system/setting/internal/model/dto"
	"hostpatrol/utils"

	"github.com/gofiber/fiber/v2"
)

// SettingController 服务监控设置
type SettingController struct {
	app *app.App
	err *errorc.ErrorBuilder
}

// NewSettingController 创建全局设置控制器
func NewSettingController(app *app.App) *SettingController {
	return &SettingController{
		app: app,
		err: errorc.NewErrorBuilder("SettingController"),
	}
}

// RegisterRoutes 注册路由
func (c *SettingController) RegisterRoutes(api fiber.Router) {
	r := api.Group("/services/settings", base.AdminAuth.RequireAdminAuth())
	r.Get("/", c.Get)
	r.Post("/", c.Update)
}

// Get 读取服务监控设置
func (c *SettingController) Get(ctx *fiber.Ctx) error {
	minutes, err := c.app.ServiceMonitorInterval(ctx.UserContext())
	if err != nil {
		return err
	}
	return result.OK(ctx, dto.ServiceSettings{MonitorInterval: minutes})
}

// Update 更新服务监控设置
func (c *SettingController) Update(ctx *fiber.Ctx) error {
	var req dto.ServiceSettings
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求体失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}
	if err := c.app.SetServiceMonitorInterval(ctx.UserContext(), req.MonitorInterval); err != nil {
		return err
	}
	return result.OKWithMessage(ctx, "服务监控设置已更新", req)
}
