package schedule

import (
	"hostpatrol/pkg/scheduler"
	"hostpatrol/system/schedule/api/client"
	internalapp "hostpatrol/system/schedule/internal/app"

	"gorm.io/gorm"
)

type Options = internalapp.Options

// Module 计划任务组件：计划巡检、服务监控循环与日志清理
type Module struct {
	internalApp *internalapp.App
	tasks       *internalapp.Tasks
	Client      *client.ScheduleClient
}

func NewModule(db *gorm.DB, runner internalapp.Runner, s *scheduler.Scheduler, opts Options) *Module {
	app := internalapp.NewApp(db, runner)
	tasks := internalapp.NewTasks(app, s, opts)
	return &Module{
		internalApp: app,
		tasks:       tasks,
		Client:      client.NewScheduleClient(app, tasks),
	}
}
