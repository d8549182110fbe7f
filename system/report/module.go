package report

import (
	"hostpatrol/pkg/report"
	"hostpatrol/system/report/api/client"
	internalapp "hostpatrol/system/report/internal/app"

	"gorm.io/gorm"
)

// Module 报告组件：HTML 报告生成、登记与下载
type Module struct {
	internalApp *internalapp.App
	Client      *client.ReportClient
}

func NewModule(db *gorm.DB, generator *report.Generator) *Module {
	app := internalapp.NewApp(db, generator)
	return &Module{
		internalApp: app,
		Client:      client.NewReportClient(app),
	}
}
