package http

import (
	"hostpatrol/base"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/result"
	internalapp "hostpatrol/system/server/internal/app"
	"hostpatrol/system/server/internal/model/dto"
	"hostpatrol/utils"

	"github.com/gofiber/fiber/v2"
)

// ServiceController 服务配置控制器
type ServiceController struct {
	app *internalapp.App
	err *errorc.ErrorBuilder
}

// NewServiceController 创建服务配置控制器
func NewServiceController(app *internalapp.App) *ServiceController {
	return &ServiceController{
		app: app,
		err: errorc.NewErrorBuilder("ServiceController"),
	}
}

// RegisterRoutes 注册路由，:id 限定为整数以免与 settings、monitor 等路径冲突
func (c *ServiceController) RegisterRoutes(api fiber.Router) {
	auth := base.AdminAuth.RequireAdminAuth()
	r := api.Group("/services", auth)

	r.Get("/", c.GetAll)
	r.Post("/", c.Create)
	r.Get("/servers", c.Servers)
	r.Get("/template/download", c.Template)
	r.Post("/batch-import", c.BatchImport)
	r.Post("/bulk-delete", c.BulkDelete)
	r.Get("/:id<int>", c.GetByID)
	r.Put("/:id<int>", c.Update)
	r.Delete("/:id<int>", c.Delete)
}

func (c *ServiceController) id(ctx *fiber.Ctx) (int64, error) {
	id, ok := utils.ParamID(ctx, "id")
	if !ok {
		return 0, c.err.New("无效的服务 ID", nil).ValidWithCtx()
	}
	return id, nil
}

// GetAll 分页查询服务配置
func (c *ServiceController) GetAll(ctx *fiber.Ctx) error {
	var req dto.QueryServiceRequest
	if err := ctx.QueryParser(&req); err != nil {
		return c.err.New("解析查询参数失败", err).ValidWithCtx()
	}
	req.Normalize()

	services, total, err := c.app.QueryServices(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return result.Page(ctx, services, result.NewPagination(req.PageNum, req.Size, total))
}

// Servers 全部服务器及各自的服务
func (c *ServiceController) Servers(ctx *fiber.Ctx) error {
	groups, err := c.app.ServersWithServices(ctx.UserContext())
	return result.Once(ctx, groups, err)
}

// GetByID 服务配置详情
func (c *ServiceController) GetByID(ctx *fiber.Ctx) error {
	id, err := c.id(ctx)
	if err != nil {
		return err
	}
	svc, err := c.app.GetService(ctx.UserContext(), id)
	return result.Once(ctx, svc, err)
}

// Create 创建服务配置
func (c *ServiceController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateServiceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求体失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}

	svc, err := c.app.CreateService(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return result.OKWithMessage(ctx, "服务配置创建成功", svc)
}

// Update 更新服务配置
func (c *ServiceController) Update(ctx *fiber.Ctx) error {
	id, err := c.id(ctx)
	if err != nil {
		return err
	}
	var req dto.UpdateServiceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求体失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}

	svc, err := c.app.UpdateService(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return result.OKWithMessage(ctx, "服务配置更新成功", svc)
}

// Delete 删除服务配置
func (c *ServiceController) Delete(ctx *fiber.Ctx) error {
	id, err := c.id(ctx)
	if err != nil {
		return err
	}
	if err := c.app.DeleteService(ctx.UserContext(), id); err != nil {
		return err
	}
	return result.OKWithMessage(ctx, "服务配置删除成功", nil)
}

// BulkDelete 批量删除服务配置
func (c *ServiceController) BulkDelete(ctx *fiber.Ctx) error {
	var req struct {
		ServiceIDs []int64 `json:"service_ids" validate:"required,min=1" comment:"服务ID"`
	}
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求体失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}
	res := c.app.BulkDeleteServices(ctx.UserContext(), req.ServiceIDs)
	return result.OKWithMessage(ctx, bulkMessage(res.SuccessCount, res.FailedCount), res)
}

// Template 下载服务导入模板
func (c *ServiceController) Template(ctx *fiber.Ctx) error {
	data, err := c.app.ServiceTemplate()
	if err != nil {
		return err
	}
	return sendCSV(ctx, "service_import_template.csv", data)
}

// BatchImport 批量导入服务配置（JSON）
func (c *ServiceController) BatchImport(ctx *fiber.Ctx) error {
	var req dto.ImportServicesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求体失败", err).ValidWithCtx()
	}
	if len(req.Services) == 0 {
		return c.err.New("导入列表不能为空", nil).ValidWithCtx()
	}
	res := c.app.ImportServices(ctx.UserContext(), req.Services)
	return importResponse(ctx, "服务配置", res)
}
