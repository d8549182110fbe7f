package security

import (
	"context"
	"strings"
	"time"

	errorc "hostpatrol/pkg/core/err"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

type AdminAuth struct {
	jwtClient *JwtClient
	blacklist Blacklist
}

const AdminKey = "admin"

type AdminClaims struct {
	jwt.RegisteredClaims
	Account string `json:"account,omitempty"`
}

func NewAdminAuth(secret []byte, expireTime time.Duration) *AdminAuth {
	return &AdminAuth{
		jwtClient: NewJwtClient(secret, expireTime),
	}
}

// WithBlacklist 设置注销令牌的存储
func (a *AdminAuth) WithBlacklist(b Blacklist) *AdminAuth {
	a.blacklist = b
	return a
}

// CreateAdminToken 创建管理员token
func (a *AdminAuth) CreateAdminToken(account string) (string, int64, error) {
	return a.jwtClient.CreateToken(&AdminClaims{Account: account})
}

// RequireAdminAuth 管理员鉴权中间件
func (a *AdminAuth) RequireAdminAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			return errorc.New("请先登录", nil).NoAuth()
		}

		claims, err := a.jwtClient.ParseToken(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			return errorc.New("登录已失效，请重新登录", err).NoAuth()
		}
		if a.blacklist != nil && a.blacklist.Revoked(c.UserContext(), claims.ID) {
			return errorc.New("登录已注销，请重新登录", nil).NoAuth()
		}

		a.jwtClient.SaveToContext(c, claims)
		return c.Next()
	}
}

// Logout 注销当前令牌，直到其自然过期前都不可再用
func (a *AdminAuth) Logout(ctx context.Context, claims *AdminClaims) error {
	if a.blacklist == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return a.blacklist.Revoke(ctx, claims.ID, ttl)
}

func GetAdminClaimsByCtx(ctx context.Context) (*AdminClaims, error) {
	claims, ok := ctx.Value(AdminKey).(*AdminClaims)
	if !ok {
		return nil, errorc.New("未找到登录信息", nil).NoAuth()
	}
	return claims, nil
}

func GetAdminAccount(ctx *fiber.Ctx) (string, error) {
	if ctx == nil {
		return "", errorc.New("fiber context is nil", nil).WithCode(errorc.ErrorCodeInternal)
	}
	claims, err := GetAdminClaimsByCtx(ctx.UserContext())
	if err != nil {
		return "", err
	}
	return claims.Account, nil
}

// ParseToken 解析管理员令牌（供外部使用）
func (a *AdminAuth) ParseToken(token string) (*AdminClaims, error) {
	return a.jwtClient.ParseToken(token)
}
