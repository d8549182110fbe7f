package app

import (
	"context"

	"hostpatrol/base"
	"hostpatrol/pkg/collector"
	"hostpatrol/pkg/core/start"
	"hostpatrol/pkg/core/util"
	"hostpatrol/pkg/notifier"
	pkgreport "hostpatrol/pkg/report"
	"hostpatrol/pkg/scheduler"
	"hostpatrol/pkg/sshx"
	"hostpatrol/system/auth"
	"hostpatrol/system/monitor"
	"hostpatrol/system/notification"
	"hostpatrol/system/report"
	"hostpatrol/system/schedule"
	"hostpatrol/system/server"
	"hostpatrol/system/setting"
	"hostpatrol/system/threshold"
)

// App 组合根：创建各组件并完成组件间的依赖注入。
// 路由注册由 router 包负责，这里不出现任何 HTTP 细节。
type App struct {
	AuthModule         *auth.Module
	ServerModule       *server.Module
	ThresholdModule    *threshold.Module
	SettingModule      *setting.Module
	MonitorModule      *monitor.Module
	ReportModule       *report.Module
	NotificationModule *notification.Module
	ScheduleModule     *schedule.Module
}

// NewApp 依赖 base 中已初始化的数据库、缓存与调度器
func NewApp(cfg start.Config, s *scheduler.Scheduler) *App {
	box := util.NewSecretBox(cfg.Monitor.SecretSalt)
	col := collector.New(collector.SSHDialer{Options: sshx.Options{
		ConnectTimeout: cfg.Monitor.ConnectTimeoutDuration(),
		CommandTimeout: cfg.Monitor.CommandTimeoutDuration(),
	}})

	serverModule := server.NewModule(base.DB, box, col)
	thresholdModule := threshold.NewModule(base.DB, base.Cache)
	settingModule := setting.NewModule(base.DB)

	monitorModule := monitor.NewModule(base.DB, serverModule.Client, thresholdModule.Client, col, base.Cache, monitor.Options{
		Workers:     cfg.Monitor.Workers(),
		HostTimeout: cfg.Monitor.HostTimeoutDuration(),
		RunTimeout:  cfg.Monitor.RunTimeoutDuration(),
	})

	reportModule := report.NewModule(base.DB, pkgreport.NewGenerator(cfg.Report.Directory()))

	// 通道测试使用最近一次巡检汇总
	notificationModule := notification.NewModule(base.DB, box, notifier.NewDispatcher(nil, cfg.Monitor.Workers()), monitorModule.Client)

	monitorModule.Client.SetPipeline(reportModule.Client, notificationModule.Client)

	scheduleModule := schedule.NewModule(base.DB, monitorModule.Client, s, schedule.Options{
		Tick:          cfg.Scheduler.TickDuration(),
		RunTimeout:    cfg.Monitor.RunTimeoutDuration(),
		CleanupCron:   cfg.Scheduler.CleanupSpec(),
		RetentionDays: cfg.Monitor.RetentionDays(),
	})

	return &App{
		AuthModule:         auth.NewModule(cfg.Admin, base.AdminAuth),
		ServerModule:       serverModule,
		ThresholdModule:    thresholdModule,
		SettingModule:      settingModule,
		MonitorModule:      monitorModule,
		ReportModule:       reportModule,
		NotificationModule: notificationModule,
		ScheduleModule:     scheduleModule,
	}
}

// Start 写入种子主机并注册后台任务，调度器需已启动
func (a *App) Start(ctx context.Context, cfg start.Config) error {
	if err := a.ServerModule.EnsureBootstrapServers(ctx, cfg.Server.Bootstrap); err != nil {
		return err
	}
	return a.ScheduleModule.Client.Start(ctx, a.SettingModule.Client)
}
