package monitor

import (
	"context"

	"hostpatrol/system/monitor/api/client"
	internalapp "hostpatrol/system/monitor/internal/app"
	serverclient "hostpatrol/system/server/api/client"

	"github.com/go-redis/cache/v9"
	"gorm.io/gorm"
)

// Options 巡检并发与超时
type Options = internalapp.Options

// Module 巡检组件：执行巡检、记录日志、仪表盘
type Module struct {
	internalApp *internalapp.App
	Client      *client.MonitorClient
}

// NewModule 创建巡检组件，并在服务器组件上注册删除级联
func NewModule(db *gorm.DB, servers *serverclient.ServerClient, thresholds internalapp.ThresholdSource, hc internalapp.HostCollector, c *cache.Cache, opts Options) *Module {
	app := internalapp.NewApp(db, servers, thresholds, hc, c, opts)

	servers.OnServerDelete(func(ctx context.Context, tx *gorm.DB, ids []int64) error {
		return app.LogService.DeleteByServers(ctx, tx, ids)
	})
	servers.OnServiceDelete(func(ctx context.Context, tx *gorm.DB, ids []int64) error {
		return app.LogService.DeleteByServices(ctx, tx, ids)
	})

	return &Module{
		internalApp: app,
		Client:      client.NewMonitorClient(app),
	}
}
