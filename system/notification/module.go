package notification

import (
	"hostpatrol/pkg/core/util"
	"hostpatrol/system/notification/api/client"
	internalapp "hostpatrol/system/notification/internal/app"

	"gorm.io/gorm"
)

// Module 通知组件：webhook 通道管理与通知分发
type Module struct {
	internalApp *internalapp.App
	Client      *client.NotificationClient
}

// NewModule 创建通知组件，summaries 为通道测试提供最近一次巡检结果
func NewModule(db *gorm.DB, box *util.SecretBox, d internalapp.Deliverer, summaries internalapp.SummarySource) *Module {
	app := internalapp.NewApp(db, box, d, summaries)
	return &Module{
		internalApp: app,
		Client:      client.NewNotificationClient(app),
	}
}
