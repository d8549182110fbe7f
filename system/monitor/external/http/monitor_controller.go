package http

import (
	"fmt"

	"hostpatrol/base"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/result"
	"hostpatrol/pkg/patrol"
	"hostpatrol/system/monitor/api/dto"
	"hostpatrol/system/monitor/internal/app"
	"hostpatrol/utils"

	"github.com/gofiber/fiber/v2"
)

// MonitorController 手动巡检与仪表盘
type MonitorController struct {
	app *app.App
	err *errorc.ErrorBuilder
}

// NewMonitorController 创建巡检控制器
func NewMonitorController(app *app.App) *MonitorController {
	return &MonitorController{
		app: app,
		err: errorc.NewErrorBuilder("MonitorController"),
	}
}

// RegisterRoutes 注册路由
func (c *MonitorController) RegisterRoutes(api fiber.Router) {
	auth := base.AdminAuth.RequireAdminAuth()
	api.Get("/dashboard", auth, c.Dashboard)

	r := api.Group("/monitor", auth)
	r.Post("/execute", c.Execute)
	r.Post("/server/:id<int>", c.Server)

	s := api.Group("/services/monitor", auth)
	s.Post("/all", c.AllServices)
	s.Post("/single/:id<int>", c.SingleService)
	s.Post("/:server_id<int>", c.ServerServices)
}

// Dashboard 仪表盘统计
func (c *MonitorController) Dashboard(ctx *fiber.Ctx) error {
	d, err := c.app.Dashboard(ctx.UserContext())
	return result.Once(ctx, d, err)
}

// Execute 巡检全部启用服务器，生成手动报告并发送通知
func (c *MonitorController) Execute(ctx *fiber.Ctx) error {
	res, err := c.app.ExecuteAndReport(ctx.UserContext(), patrol.ReportManual)
	if err != nil {
		return err
	}
	return result.OKWithMessage(ctx, fmt.Sprintf("巡检完成，共 %d 台服务器", res.TotalServers), res)
}

// Server 巡检单台服务器
func (c *MonitorController) Server(ctx *fiber.Ctx) error {
	id, ok := utils.ParamID(ctx, "id")
	if !ok {
		return c.err.New("无效的服务器 ID", nil).ValidWithCtx()
	}
	summary, err := c.app.MonitorServer(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	if len(summary.Results) == 0 {
		return result.OK(ctx, nil)
	}
	return result.OKWithMessage(ctx, "服务器巡检完成", summary.Results[0])
}

// AllServices 探测全部服务
func (c *MonitorController) AllServices(ctx *fiber.Ctx) error {
	return c.services(ctx, patrol.All(false))
}

// ServerServices 探测服务器下的全部服务
func (c *MonitorController) ServerServices(ctx *fiber.Ctx) error {
	id, ok := utils.ParamID(ctx, "server_id")
	if !ok {
		return c.err.New("无效的服务器 ID", nil).ValidWithCtx()
	}
	return c.services(ctx, patrol.Server(id, false))
}

// SingleService 探测单个服务
func (c *MonitorController) SingleService(ctx *fiber.Ctx) error {
	id, ok := utils.ParamID(ctx, "id")
	if !ok {
		return c.err.New("无效的服务 ID", nil).ValidWithCtx()
	}
	return c.services(ctx, patrol.Service(id))
}

func (c *MonitorController) services(ctx *fiber.Ctx, plan patrol.Plan) error {
	summary, err := c.app.MonitorServices(ctx.UserContext(), plan)
	if err != nil {
		return err
	}
	res := dto.NewServiceRunResult(summary)
	msg := fmt.Sprintf("服务监控完成，正常 %d 个，异常 %d 个", res.Normal, res.Error)
	return result.OKWithMessage(ctx, msg, res)
}
