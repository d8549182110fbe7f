package threshold

import (
	"hostpatrol/system/threshold/api/client"
	"hostpatrol/system/threshold/internal/app"

	"github.com/go-redis/cache/v9"
	"gorm.io/gorm"
)

// Module 阈值组件模块
type Module struct {
	internalApp *app.App
	Client      *client.ThresholdClient
}

func NewModule(db *gorm.DB, c *cache.Cache) *Module {
	internalApp := app.NewApp(db, c)
	return &Module{
		internalApp: internalApp,
		Client:      client.NewThresholdClient(internalApp),
	}
}
