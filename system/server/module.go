package server

import (
	"context"

	"hostpatrol/pkg/core/config"
	"hostpatrol/pkg/core/util"
	"hostpatrol/system/server/api/client"
	internalapp "hostpatrol/system/server/internal/app"

	"gorm.io/gorm"
)

// Module 服务器组件模块：被巡检的主机与其上的服务配置
type Module struct {
	internalApp *internalapp.App
	Client      *client.ServerClient
}

// NewModule 创建服务器组件模块
func NewModule(db *gorm.DB, box *util.SecretBox, tester internalapp.ConnectionTester) *Module {
	app := internalapp.NewApp(db, box, tester)

	return &Module{
		internalApp: app,
		Client:      client.NewServerClient(app),
	}
}

// EnsureBootstrapServers 确保配置中的 bootstrap 服务器已存在
func (m *Module) EnsureBootstrapServers(ctx context.Context, servers []config.BootstrapServer) error {
	return m.internalApp.EnsureBootstrapServers(ctx, servers)
}
