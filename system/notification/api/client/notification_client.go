package client

import (
	"context"

	"hostpatrol/pkg/patrol"
	"hostpatrol/system/notification/internal/app"
)

// NotificationClient 通知组件对外客户端，巡检组件通过它分发通知
type NotificationClient struct {
	app *app.App
}

func NewNotificationClient(app *app.App) *NotificationClient {
	return &NotificationClient{app: app}
}

// Notify 向全部启用通道发送巡检结果
func (c *NotificationClient) Notify(ctx context.Context, summary *patrol.Summary, report *patrol.ReportRef) (*patrol.Dispatch, error) {
	return c.app.Notify(ctx, summary, report)
}

// SendText 向全部启用通道发送文本
func (c *NotificationClient) SendText(ctx context.Context, content string) (*patrol.Dispatch, error) {
	return c.app.SendText(ctx, content)
}
