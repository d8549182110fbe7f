package http

import (
	"hostpatrol/base"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/result"
	"hostpatrol/system/monitor/internal/app"
	"hostpatrol/system/monitor/internal/model/dto"
	"hostpatrol/utils"

	"github.com/gofiber/fiber/v2"
)

// LogController 巡检日志
type LogController struct {
	app *app.App
	err *errorc.ErrorBuilder
}

// NewLogController 创建巡检日志控制器
func NewLogController(app *app.App) *LogController {
	return &LogController{
		app: app,
		err: errorc.NewErrorBuilder("LogController"),
	}
}

// RegisterRoutes 注册路由
func (c *LogController) RegisterRoutes(api fiber.Router) {
	r := api.Group("/logs", base.AdminAuth.RequireAdminAuth())
	r.Get("/", c.GetAll)
	r.Get("/services", c.ServiceLogs)
	r.Post("/bulk-delete", c.BulkDelete)
	r.Get("/:id<int>", c.GetByID)
	r.Delete("/:id<int>", c.Delete)
}

// GetAll 分页查询巡检日志
func (c *LogController) GetAll(ctx *fiber.Ctx) error {
	var req dto.QueryLogRequest
	if err := ctx.QueryParser(&req); err != nil {
		return c.err.New("解析查询参数失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}
	req.Normalize()

	logs, total, err := c.app.QueryLogs(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return result.Page(ctx, logs, result.NewPagination(req.PageNum, req.Size, total))
}

// GetByID 巡检日志详情
func (c *LogController) GetByID(ctx *fiber.Ctx) error {
	id, ok := utils.ParamID(ctx, "id")
	if !ok {
		return c.err.New("无效的日志 ID", nil).ValidWithCtx()
	}
	l, err := c.app.GetLog(ctx.UserContext(), id)
	return result.Once(ctx, l, err)
}

// Delete 删除巡检日志
func (c *LogController) Delete(ctx *fiber.Ctx) error {
	id, ok := utils.ParamID(ctx, "id")
	if !ok {
		return c.err.New("无效的日志 ID", nil).ValidWithCtx()
	}
	if err := c.app.DeleteLog(ctx.UserContext(), id); err != nil {
		return err
	}
	return result.OKWithMessage(ctx, "日志删除成功", nil)
}

// BulkDelete 批量删除巡检日志，返回每个 ID 的结果
func (c *LogController) BulkDelete(ctx *fiber.Ctx) error {
	var req dto.BulkDeleteLogRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求体失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}
	res := c.app.BulkDeleteLogs(ctx.UserContext(), req.LogIDs)
	if res.SuccessCount == 0 {
		return result.Fail(ctx, fiber.StatusBadRequest, "找不到指定的日志", res)
	}
	return result.OKWithMessage(ctx, bulkMessage(res.SuccessCount, res.FailedCount), res)
}

// ServiceLogs 服务探测历史
func (c *LogController) ServiceLogs(ctx *fiber.Ctx) error {
	var req dto.QueryServiceLogRequest
	if err := ctx.QueryParser(&req); err != nil {
		return c.err.New("解析查询参数失败", err).ValidWithCtx()
	}
	req.Normalize()
	logs, total, err := c.app.QueryServiceLogs(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return result.Page(ctx, logs, result.NewPagination(req.PageNum, req.Size, total))
}
