package http

import (
	"context"
	"fmt"

	"hostpatrol/base"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/result"
	"hostpatrol/pkg/patrol"
	monitordto "hostpatrol/system/monitor/api/dto"
	"hostpatrol/system/report/internal/app"
	"hostpatrol/system/report/internal/model/dto"
	"hostpatrol/utils"

	"github.com/gofiber/fiber/v2"
)

// Trigger 执行一次完整巡检并出报告
type Trigger interface {
	ExecuteAndReport(ctx context.Context, reportType string) (*monitordto.ExecuteResult, error)
}

// ReportController 报告
type ReportController struct {
	app     *app.App
	trigger Trigger
	err     *errorc.ErrorBuilder
}

// NewReportController 创建报告控制器
func NewReportController(app *app.App, trigger Trigger) *ReportController {
	return &ReportController{
		app:     app,
		trigger: trigger,
		err:     errorc.NewErrorBuilder("ReportController"),
	}
}

// RegisterRoutes 注册路由
func (c *ReportController) RegisterRoutes(api fiber.Router) {
	r := api.Group("/reports", base.AdminAuth.RequireAdminAuth())
	r.Get("/", c.GetAll)
	r.Post("/generate", c.Generate)
	r.Post("/bulk-delete", c.BulkDelete)
	r.Get("/:id<int>", c.GetByID)
	r.Get("/:id<int>/download", c.Download)
	r.Delete("/:id<int>", c.Delete)
}

func (c *ReportController) id(ctx *fiber.Ctx) (int64, error) {
	id, ok := utils.ParamID(ctx, "id")
	if !ok {
		return 0, c.err.New("无效的报告 ID", nil).ValidWithCtx()
	}
	return id, nil
}

// GetAll 分页查询报告
func (c *ReportController) GetAll(ctx *fiber.Ctx) error {
	var req dto.QueryReportRequest
	if err := ctx.QueryParser(&req); err != nil {
		return c.err.New("解析查询参数失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}
	req.Normalize()

	reports, total, err := c.app.QueryReports(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return result.Page(ctx, reports, result.NewPagination(req.PageNum, req.Size, total))
}

// GetByID 报告详情
func (c *ReportController) GetByID(ctx *fiber.Ctx) error {
	id, err := c.id(ctx)
	if err != nil {
		return err
	}
	r, err := c.app.GetReport(ctx.UserContext(), id)
	return result.Once(ctx, r, err)
}

// Generate 手动巡检全部服务器并生成报告
func (c *ReportController) Generate(ctx *fiber.Ctx) error {
	res, err := c.trigger.ExecuteAndReport(ctx.UserContext(), patrol.ReportManual)
	if err != nil {
		return err
	}
	if res.ReportError != "" {
		return result.Fail(ctx, fiber.StatusInternalServerError, "报告生成失败: "+res.ReportError, res)
	}
	return result.OKWithMessage(ctx, fmt.Sprintf("报告生成成功，共 %d 台服务器", res.TotalServers), res)
}

// Download 下载报告文件
func (c *ReportController) Download(ctx *fiber.Ctx) error {
	id, err := c.id(ctx)
	if err != nil {
		return err
	}
	r, err := c.app.DownloadPath(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.Download(r.ReportPath, r.ReportName+".html")
}

// Delete 删除报告及文件
func (c *ReportController) Delete(ctx *fiber.Ctx) error {
	id, err := c.id(ctx)
	if err != nil {
		return err
	}
	if err := c.app.DeleteReport(ctx.UserContext(), id); err != nil {
		return err
	}
	return result.OKWithMessage(ctx, "报告删除成功", nil)
}

// BulkDelete 批量删除报告
func (c *ReportController) BulkDelete(ctx *fiber.Ctx) error {
	var req dto.BulkDeleteReportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求体失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}
	res := c.app.BulkDeleteReports(ctx.UserContext(), req.ReportIDs)
	if res.SuccessCount == 0 {
		return result.Fail(ctx, fiber.StatusBadRequest, "找不到指定的报告", res)
	}
	msg := fmt.Sprintf("成功删除 %d 个报告", res.SuccessCount)
	if res.FailedCount > 0 {
		msg += fmt.Sprintf("，失败 %d 个", res.FailedCount)
	}
	return result.OKWithMessage(ctx, msg, res)
}
