package setting

import (
	"hostpatrol/system/setting/api/client"
	"hostpatrol/system/setting/internal/app"

	"gorm.io/gorm"
)

// Module 全局设置模块
type Module struct {
	internalApp *app.App
	Client      *client.SettingClient
}

func NewModule(db *gorm.DB) *Module {
	internalApp := app.NewApp(db)
	return &Module{
		internalApp: internalApp,
		Client:      client.NewSettingClient(internalApp),
	}
}
