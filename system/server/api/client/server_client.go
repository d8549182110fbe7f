package client

import (
	"context"

	"hostpatrol/system/server/api/dto"
	"hostpatrol/system/server/internal/app"

	"gorm.io/gorm"
)

// ServerClient 服务器组件对外客户端，供巡检、仪表盘等组件使用
type ServerClient struct {
	app *app.App
}

// NewServerClient 创建服务器客户端
func NewServerClient(app *app.App) *ServerClient {
	return &ServerClient{
		app: app,
	}
}

// ActiveTargets 全部启用服务器及其监控中的服务，凭证已解密
func (c *ServerClient) ActiveTargets(ctx context.Context) ([]*dto.ServerTarget, error) {
	return c.app.ActiveTargets(ctx)
}

// ServerTarget 单台服务器巡检目标
func (c *ServerClient) ServerTarget(ctx context.Context, serverID int64) (*dto.ServerTarget, error) {
	return c.app.ServerTarget(ctx, serverID)
}

// ServiceTarget 单个服务巡检目标
func (c *ServerClient) ServiceTarget(ctx context.Context, serviceID int64) (*dto.ServerTarget, error) {
	return c.app.ServiceTarget(ctx, serviceID)
}

// ApplyServiceStatuses 写回巡检得到的服务状态
func (c *ServerClient) ApplyServiceStatuses(ctx context.Context, updates []dto.ServiceStatusUpdate) error {
	return c.app.ApplyServiceStatuses(ctx, updates)
}

// ServicesOverview 服务状态总览
func (c *ServerClient) ServicesOverview(ctx context.Context) (*dto.ServicesOverview, error) {
	return c.app.ServicesOverview(ctx)
}

// ServerBriefs 服务器名称与地址映射，ids 为空时返回全部
func (c *ServerClient) ServerBriefs(ctx context.Context, ids []int64) (map[int64]dto.ServerBrief, error) {
	return c.app.ServerBriefs(ctx, ids)
}

// CountActive 启用服务器数量
func (c *ServerClient) CountActive(ctx context.Context) (int64, error) {
	return c.app.CountActive(ctx)
}

// OnServerDelete 注册服务器删除时的级联清理
func (c *ServerClient) OnServerDelete(hook func(ctx context.Context, tx *gorm.DB, serverIDs []int64) error) {
	c.app.OnServerDelete(hook)
}

// OnServiceDelete 注册服务删除时的级联清理
func (c *ServerClient) OnServiceDelete(hook func(ctx context.Context, tx *gorm.DB, serviceIDs []int64) error) {
	c.app.OnServiceDelete(hook)
}
