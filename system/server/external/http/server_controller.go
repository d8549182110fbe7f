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

// ServerController 服务器控制器
type ServerController struct {
	app *internalapp.App
	err *errorc.ErrorBuilder
}

// NewServerController 创建服务器控制器
func NewServerController(app *internalapp.App) *ServerController {
	return &ServerController{
		app: app,
		err: errorc.NewErrorBuilder("ServerController"),
	}
}

// RegisterRoutes 注册路由
func (c *ServerController) RegisterRoutes(api fiber.Router) {
	auth := base.AdminAuth.RequireAdminAuth()
	serverRouter := api.Group("/servers", auth)

	serverRouter.Get("/", c.GetAll)
	serverRouter.Post("/", c.Create)
	serverRouter.Get("/with-services", c.WithServices)
	serverRouter.Get("/template/download", c.Template)
	serverRouter.Post("/batch-import", c.BatchImport)
	serverRouter.Post("/test", c.TestAdhoc)
	serverRouter.Post("/batch-test", c.BatchTest)
	serverRouter.Post("/bulk-delete", c.BulkDelete)
	serverRouter.Get("/:id<int>", c.GetByID)
	serverRouter.Put("/:id<int>", c.Update)
	serverRouter.Delete("/:id<int>", c.Delete)
	serverRouter.Post("/:id<int>/test", c.Test)
	serverRouter.Get("/:id<int>/services", c.Services)
}

func (c *ServerController) id(ctx *fiber.Ctx) (int64, error) {
	id, ok := utils.ParamID(ctx, "id")
	if !ok {
		return 0, c.err.New("无效的服务器 ID", nil).ValidWithCtx()
	}
	return id, nil
}

// GetAll 分页获取服务器
func (c *ServerController) GetAll(ctx *fiber.Ctx) error {
	var req dto.QueryServerRequest
	if err := ctx.QueryParser(&req); err != nil {
		return c.err.New("解析查询参数失败", err).ValidWithCtx()
	}
	req.Normalize()

	servers, total, err := c.app.QueryServers(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return result.Page(ctx, servers, result.NewPagination(req.PageNum, req.Size, total))
}

// WithServices 分页服务器列表及服务统计
func (c *ServerController) WithServices(ctx *fiber.Ctx) error {
	var req dto.QueryServerRequest
	if err := ctx.QueryParser(&req); err != nil {
		return c.err.New("解析查询参数失败", err).ValidWithCtx()
	}
	req.Normalize()

	items, total, err := c.app.ServersWithStats(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return result.Page(ctx, items, result.NewPagination(req.PageNum, req.Size, total))
}

// GetByID 根据 ID 获取服务器
func (c *ServerController) GetByID(ctx *fiber.Ctx) error {
	id, err := c.id(ctx)
	if err != nil {
		return err
	}
	server, err := c.app.GetServer(ctx.UserContext(), id)
	return result.Once(ctx, server, err)
}

// Create 创建服务器
func (c *ServerController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateServerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求体失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}

	server, err := c.app.CreateServer(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return result.OKWithMessage(ctx, "服务器创建成功", server)
}

// Update 更新服务器
func (c *ServerController) Update(ctx *fiber.Ctx) error {
	id, err := c.id(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateServerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求体失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}

	server, err := c.app.UpdateServer(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return result.OKWithMessage(ctx, "服务器更新成功", server)
}

// Delete 删除服务器及其服务、监控记录
func (c *ServerController) Delete(ctx *fiber.Ctx) error {
	id, err := c.id(ctx)
	if err != nil {
		return err
	}
	if err := c.app.DeleteServer(ctx.UserContext(), id); err != nil {
		return err
	}
	return result.OKWithMessage(ctx, "服务器删除成功", nil)
}

// BulkDelete 批量删除，返回每个 ID 的结果
func (c *ServerController) BulkDelete(ctx *fiber.Ctx) error {
	var req dto.BulkDeleteServerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求体失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}

	res := c.app.BulkDeleteServers(ctx.UserContext(), req.ServerIDs)
	return result.OKWithMessage(ctx, bulkMessage(res.SuccessCount, res.FailedCount), res)
}

// Test 测试已保存服务器的连接
func (c *ServerController) Test(ctx *fiber.Ctx) error {
	id, err := c.id(ctx)
	if err != nil {
		return err
	}
	res, err := c.app.TestServer(ctx.UserContext(), id)
	return result.Once(ctx, res, err)
}

// TestAdhoc 测试未保存的连接参数
func (c *ServerController) TestAdhoc(ctx *fiber.Ctx) error {
	var req dto.TestConnectionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求体失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}
	res, err := c.app.TestAdhoc(ctx.UserContext(), &req)
	return result.Once(ctx, res, err)
}

// BatchTest 批量测试连接
func (c *ServerController) BatchTest(ctx *fiber.Ctx) error {
	var req dto.BatchTestRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求体失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}
	res, err := c.app.BatchTest(ctx.UserContext(), req.ServerIDs)
	return result.Once(ctx, res, err)
}

// Services 服务器下的服务配置
func (c *ServerController) Services(ctx *fiber.Ctx) error {
	id, err := c.id(ctx)
	if err != nil {
		return err
	}
	services, err := c.app.ServerServices(ctx.UserContext(), id)
	return result.Once(ctx, services, err)
}

// Template 下载服务器导入模板
func (c *ServerController) Template(ctx *fiber.Ctx) error {
	data, err := c.app.ServerTemplate()
	if err != nil {
		return err
	}
	return sendCSV(ctx, "server_import_template.csv", data)
}

// BatchImport 批量导入服务器（JSON）
func (c *ServerController) BatchImport(ctx *fiber.Ctx) error {
	var req dto.ImportServersRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求体失败", err).ValidWithCtx()
	}
	if len(req.Servers) == 0 {
		return c.err.New("导入列表不能为空", nil).ValidWithCtx()
	}

	res := c.app.ImportServers(ctx.UserContext(), req.Servers)
	return importResponse(ctx, "服务器", res)
}
