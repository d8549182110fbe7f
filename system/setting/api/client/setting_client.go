package client

import (
	"context"

	"hostpatrol/system/setting/internal/app"
)

// SettingClient 全局设置对外客户端
type SettingClient struct {
	app *app.App
}

func NewSettingClient(app *app.App) *SettingClient {
	return &SettingClient{app: app}
}

// ServiceMonitorInterval 服务监控间隔（分钟）
func (c *SettingClient) ServiceMonitorInterval(ctx context.Context) (int, error) {
	return c.app.ServiceMonitorInterval(ctx)
}

// OnIntervalChange 间隔更新后回调，用于重启监控循环
func (c *SettingClient) OnIntervalChange(fn func(ctx context.Context, minutes int) error) {
	c.app.OnIntervalChange(fn)
}
