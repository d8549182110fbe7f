package http

import (
	"fmt"

	"hostpatrol/base"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/result"
	"hostpatrol/system/schedule/internal/app"
	"hostpatrol/system/schedule/internal/model/dto"
	"hostpatrol/utils"

	"github.com/gofiber/fiber/v2"
)

// ScheduleController 计划任务
type ScheduleController struct {
	app   *app.App
	tasks *app.Tasks
	err   *errorc.ErrorBuilder
}

// NewScheduleController 创建计划任务控制器
func NewScheduleController(a *app.App, tasks *app.Tasks) *ScheduleController {
	return &ScheduleController{
		app:   a,
		tasks: tasks,
		err:   errorc.NewErrorBuilder("ScheduleController"),
	}
}

// RegisterRoutes 注册路由
func (c *ScheduleController) RegisterRoutes(api fiber.Router) {
	r := api.Group("/schedules", base.AdminAuth.RequireAdminAuth())
	r.Get("/", c.GetAll)
	r.Post("/", c.Create)
	r.Get("/runtime", c.Runtime)
	r.Post("/tick", c.Tick)
	r.Get("/:id<int>", c.GetByID)
	r.Put("/:id<int>", c.Update)
	r.Delete("/:id<int>", c.Delete)

	loop := api.Group("/services/monitor", base.AdminAuth.RequireAdminAuth())
	loop.Get("/status", c.LoopStatus)
	loop.Post("/start", c.LoopStart)
	loop.Post("/stop", c.LoopStop)
}

func (c *ScheduleController) id(ctx *fiber.Ctx) (int64, error) {
	id, ok := utils.ParamID(ctx, "id")
	if !ok {
		return 0, c.err.New("无效的任务 ID", nil).ValidWithCtx()
	}
	return id, nil
}

// GetAll 全部计划任务
func (c *ScheduleController) GetAll(ctx *fiber.Ctx) error {
	schedules, err := c.app.ListSchedules(ctx.UserContext())
	return result.Once(ctx, schedules, err)
}

// GetByID 计划任务详情
func (c *ScheduleController) GetByID(ctx *fiber.Ctx) error {
	id, err := c.id(ctx)
	if err != nil {
		return err
	}
	s, err := c.app.GetSchedule(ctx.UserContext(), id)
	return result.Once(ctx, s, err)
}

// Create 创建计划任务
func (c *ScheduleController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateScheduleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求体失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}
	s, err := c.app.CreateSchedule(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return result.OKWithMessage(ctx, "计划任务创建成功", s)
}

// Update 更新计划任务
func (c *ScheduleController) Update(ctx *fiber.Ctx) error {
	id, err := c.id(ctx)
	if err != nil {
		return err
	}
	var req dto.UpdateScheduleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求体失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}
	s, err := c.app.UpdateSchedule(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return result.OKWithMessage(ctx, "计划任务更新成功", s)
}

// Delete 删除计划任务
func (c *ScheduleController) Delete(ctx *fiber.Ctx) error {
	id, err := c.id(ctx)
	if err != nil {
		return err
	}
	if err := c.app.DeleteSchedule(ctx.UserContext(), id); err != nil {
		return err
	}
	return result.OKWithMessage(ctx, "计划任务删除成功", nil)
}

// Runtime 调度器状态
func (c *ScheduleController) Runtime(ctx *fiber.Ctx) error {
	return result.OK(ctx, c.tasks.Runtime())
}

// Tick 立即执行一次到期任务扫描
func (c *ScheduleController) Tick(ctx *fiber.Ctx) error {
	n, err := c.app.Tick(ctx.UserContext())
	if err != nil {
		return err
	}
	return result.OKWithMessage(ctx, fmt.Sprintf("已执行 %d 个到期任务", n), fiber.Map{"executed": n})
}

// LoopStatus 服务监控循环状态
func (c *ScheduleController) LoopStatus(ctx *fiber.Ctx) error {
	return result.OK(ctx, c.tasks.ServiceLoopStatus())
}

// LoopStart 启动服务监控循环
func (c *ScheduleController) LoopStart(ctx *fiber.Ctx) error {
	started, err := c.tasks.StartServiceLoop(ctx.UserContext())
	if err != nil {
		return err
	}
	msg := "服务监控循环已启动"
	if !started {
		msg = "服务监控循环已经在运行"
	}
	return result.OKWithMessage(ctx, msg, c.tasks.ServiceLoopStatus())
}

// LoopStop 停止本节点的服务监控循环
func (c *ScheduleController) LoopStop(ctx *fiber.Ctx) error {
	msg := "服务监控循环已停止"
	if !c.tasks.StopServiceLoop() {
		msg = "服务监控循环未在运行"
	}
	return result.OKWithMessage(ctx, msg, c.tasks.ServiceLoopStatus())
}
