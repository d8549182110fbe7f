package http

import (
	"hostpatrol/base"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/result"
	"hostpatrol/system/notification/internal/app"
	"hostpatrol/system/notification/internal/model/dto"
	"hostpatrol/utils"

	"github.com/gofiber/fiber/v2"
)

// ChannelController 通知通道
type ChannelController struct {
	app *app.App
	err *errorc.ErrorBuilder
}

// NewChannelController 创建通知渠道控制器
func NewChannelController(app *app.App) *ChannelController {
	return &ChannelController{
		app: app,
		err: errorc.NewErrorBuilder("ChannelController"),
	}
}

// RegisterRoutes 注册路由
func (c *ChannelController) RegisterRoutes(api fiber.Router) {
	r := api.Group("/notifications", base.AdminAuth.RequireAdminAuth())
	r.Get("/", c.GetAll)
	r.Post("/", c.Create)
	r.Get("/:id<int>", c.GetByID)
	r.Put("/:id<int>", c.Update)
	r.Delete("/:id<int>", c.Delete)
	r.Post("/:id<int>/test", c.Test)
}

func (c *ChannelController) id(ctx *fiber.Ctx) (int64, error) {
	id, ok := utils.ParamID(ctx, "id")
	if !ok {
		return 0, c.err.New("无效的通道 ID", nil).ValidWithCtx()
	}
	return id, nil
}

// GetAll 全部通知渠道
func (c *ChannelController) GetAll(ctx *fiber.Ctx) error {
	channels, err := c.app.ListChannels(ctx.UserContext())
	return result.Once(ctx, channels, err)
}

// GetByID 通知渠道详情
func (c *ChannelController) GetByID(ctx *fiber.Ctx) error {
	id, err := c.id(ctx)
	if err != nil {
		return err
	}
	ch, err := c.app.GetChannel(ctx.UserContext(), id)
	return result.Once(ctx, ch, err)
}

// Create 创建通知渠道
func (c *ChannelController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateChannelRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求体失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}
	ch, err := c.app.CreateChannel(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return result.OKWithMessage(ctx, "通知通道创建成功", ch)
}

// Update 更新通知渠道
func (c *ChannelController) Update(ctx *fiber.Ctx) error {
	id, err := c.id(ctx)
	if err != nil {
		return err
	}
	var req dto.UpdateChannelRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求体失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}
	ch, err := c.app.UpdateChannel(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return result.OKWithMessage(ctx, "通知通道更新成功", ch)
}

// Delete 删除通知渠道
func (c *ChannelController) Delete(ctx *fiber.Ctx) error {
	id, err := c.id(ctx)
	if err != nil {
		return err
	}
	if err := c.app.DeleteChannel(ctx.UserContext(), id); err != nil {
		return err
	}
	return result.OKWithMessage(ctx, "通知通道删除成功", nil)
}

// Test 向单个通道发送测试消息，投递失败时返回失败信封并带上结果
func (c *ChannelController) Test(ctx *fiber.Ctx) error {
	id, err := c.id(ctx)
	if err != nil {
		return err
	}
	res, err := c.app.TestChannel(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	if !res.Success {
		return result.Fail(ctx, fiber.StatusBadGateway, "测试通知发送失败: "+res.Message, res)
	}
	return result.OKWithMessage(ctx, "测试通知发送成功", res)
}
