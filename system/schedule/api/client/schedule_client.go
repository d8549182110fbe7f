package client

import (
	"context"

	"hostpatrol/system/schedule/internal/app"
)

// ScheduleClient 计划任务组件对外客户端
type ScheduleClient struct {
	app   *app.App
	tasks *app.Tasks
}

func NewScheduleClient(a *app.App, tasks *app.Tasks) *ScheduleClient {
	return &ScheduleClient{app: a, tasks: tasks}
}

// Tick 立即扫描一次到期任务
func (c *ScheduleClient) Tick(ctx context.Context) (int, error) {
	return c.app.Tick(ctx)
}

// Start 在调度器上注册后台任务
func (c *ScheduleClient) Start(ctx context.Context, intervals app.IntervalSource) error {
	return c.tasks.Start(ctx, intervals)
}
