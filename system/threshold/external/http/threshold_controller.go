package http

import (
	"hostpatrol/base"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/result"
	"hostpatrol/pkg/evaluator"
	"hostpatrol/system/threshold/internal/app"
	"hostpatrol/system/threshold/internal/model/dto"
	"hostpatrol/utils"

	"github.com/gofiber/fiber/v2"
)

// ThresholdController 阈值配置控制器
type ThresholdController struct {
	app *app.App
	err *errorc.ErrorBuilder
}

// NewThresholdController 创建阈值控制器
func NewThresholdController(app *app.App) *ThresholdController {
	return &ThresholdController{
		app: app,
		err: errorc.NewErrorBuilder("ThresholdController"),
	}
}

// RegisterRoutes 注册路由
func (c *ThresholdController) RegisterRoutes(api fiber.Router) {
	r := api.Group("/thresholds", base.AdminAuth.RequireAdminAuth())
	r.Get("/", c.Get)
	r.Post("/", c.Update)
}

// Get 获取阈值配置
func (c *ThresholdController) Get(ctx *fiber.Ctx) error {
	m, err := c.app.Get(ctx.UserContext())
	return result.Once(ctx, m, err)
}

// Update 更新阈值配置，新值只对之后开始的巡检生效
func (c *ThresholdController) Update(ctx *fiber.Ctx) error {
	var req dto.UpdateThresholdRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求体失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}

	m, err := c.app.Update(ctx.UserContext(), evaluator.Thresholds{
		CPU:    req.CPUThreshold,
		Memory: req.MemoryThreshold,
		Disk:   req.DiskThreshold,
	})
	if err != nil {
		return err
	}
	return result.OKWithMessage(ctx, "阈值配置更新成功", m)
}
