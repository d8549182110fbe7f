package auth

import (
	"hostpatrol/pkg/core/config"
	"hostpatrol/pkg/core/security"
	internalapp "hostpatrol/system/auth/internal/app"
)

// Module 管理员登录组件
type Module struct {
	internalApp *internalapp.App
}

func NewModule(admin config.AdminConfig, auth *security.AdminAuth) *Module {
	return &Module{internalApp: internalapp.NewApp(admin, auth)}
}

// HashPassword 生成 admin.password-hash 配置值
func HashPassword(password string) (string, error) {
	return internalapp.HashPassword(password)
}
