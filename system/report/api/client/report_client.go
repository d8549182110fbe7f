package client

import (
	"context"

	"hostpatrol/pkg/patrol"
	"hostpatrol/system/report/internal/app"
)

// ReportClient 报告组件对外客户端，巡检组件通过它生成并登记报告
type ReportClient struct {
	app *app.App
}

func NewReportClient(app *app.App) *ReportClient {
	return &ReportClient{app: app}
}

func (c *ReportClient) Generate(ctx context.Context, summary *patrol.Summary, reportType string) (*patrol.ReportRef, error) {
	return c.app.Generate(ctx, summary, reportType)
}

// AttachURL 回写报告的 OSS 下载链接
func (c *ReportClient) AttachURL(ctx context.Context, id int64, url string) error {
	return c.app.AttachURL(ctx, id, url)
}
