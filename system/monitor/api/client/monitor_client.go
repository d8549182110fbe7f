package client

import (
	"context"

	"hostpatrol/pkg/patrol"
	"hostpatrol/system/monitor/api/dto"
	"hostpatrol/system/monitor/internal/app"
)

// MonitorClient 巡检组件对外客户端，供调度、报告、通知组件使用
type MonitorClient struct {
	app *app.App
}

func NewMonitorClient(app *app.App) *MonitorClient {
	return &MonitorClient{app: app}
}

// ExecuteAndReport 巡检全部服务器并出报告、发通知
func (c *MonitorClient) ExecuteAndReport(ctx context.Context, reportType string) (*dto.ExecuteResult, error) {
	return c.app.ExecuteAndReport(ctx, reportType)
}

// Run 按范围巡检
func (c *MonitorClient) Run(ctx context.Context, plan patrol.Plan) (*patrol.Summary, error) {
	return c.app.Run(ctx, plan)
}

// MonitorAllServices 服务监控循环使用：探测全部服务并在异常时告警
func (c *MonitorClient) MonitorAllServices(ctx context.Context) (*patrol.Summary, error) {
	return c.app.MonitorServices(ctx, patrol.All(false))
}

// LatestSummary 最近一次巡检状态汇总
func (c *MonitorClient) LatestSummary(ctx context.Context) (*patrol.Summary, error) {
	return c.app.LatestSummary(ctx)
}

// Cleanup 清理过期日志
func (c *MonitorClient) Cleanup(ctx context.Context, retentionDays int) error {
	return c.app.Cleanup(ctx, retentionDays)
}

// SetPipeline 注入报告生成与通知分发
func (c *MonitorClient) SetPipeline(r app.Reporter, n app.Notifier) {
	c.app.SetPipeline(r, n)
}
