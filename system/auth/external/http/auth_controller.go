package http

import (
	"hostpatrol/base"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/result"
	"hostpatrol/pkg/core/security"
	"hostpatrol/system/auth/internal/app"
	"hostpatrol/system/auth/internal/model/dto"
	"hostpatrol/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthController 登录与注销，/auth/login 不需要鉴权
type AuthController struct {
	app *app.App
	err *errorc.ErrorBuilder
}

// NewAuthController 创建认证控制器
func NewAuthController(app *app.App) *AuthController {
	return &AuthController{
		app: app,
		err: errorc.NewErrorBuilder("AuthController"),
	}
}

// RegisterRoutes 注册路由，登录接口无需认证
func (c *AuthController) RegisterRoutes(api fiber.Router) {
	r := api.Group("/auth")
	r.Post("/login", c.Login)
	r.Get("/user", base.AdminAuth.RequireAdminAuth(), c.User)
	r.Post("/logout", base.AdminAuth.RequireAdminAuth(), c.Logout)
}

// Login 管理员登录，返回访问令牌
func (c *AuthController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求体失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}
	res, err := c.app.Login(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return result.OKWithMessage(ctx, "登录成功", res)
}

// User 当前登录的管理员
func (c *AuthController) User(ctx *fiber.Ctx) error {
	account, err := security.GetAdminAccount(ctx)
	if err != nil {
		return err
	}
	return result.OK(ctx, fiber.Map{"username": account})
}

// Logout 注销当前令牌
func (c *AuthController) Logout(ctx *fiber.Ctx) error {
	if err := c.app.Logout(ctx.UserContext()); err != nil {
		return err
	}
	return result.OKWithMessage(ctx, "已退出登录", nil)
}
