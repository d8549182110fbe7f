package cli

import (
	"context"
	"fmt"

	"hostpatrol/app"
	"hostpatrol/base"
	"hostpatrol/pkg/core/system"
	"hostpatrol/pkg/db"
	"hostpatrol/router"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务与后台调度",
	Long: `迁移数据库后启动 REST API，并注册计划巡检扫描、服务监控循环与日志清理任务。

Examples:
  hostpatrol serve --env prod
  hostpatrol serve --config /etc/hostpatrol/prod.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCommand()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serveCommand() error {
	configures, err := bootstrap()
	if err != nil {
		return err
	}
	cfg := configures.Config
	log := configures.Logger.WithEntryName("Serve")

	if err := db.AutoMigrate(base.DB); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	base.Scheduler = newScheduler(cfg.Scheduler)
	if err := base.Scheduler.Start(); err != nil {
		return fmt.Errorf("启动调度器失败: %w", err)
	}
	system.RegisterClose(func() { _ = base.Scheduler.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	system.RegisterClose(cancel)

	appRoot := app.NewApp(cfg, base.Scheduler)
	if err := appRoot.Start(ctx, cfg); err != nil {
		return fmt.Errorf("启动后台任务失败: %w", err)
	}

	fiberApp := app.GetApp(cfg.StaticDir)
	router.Register(appRoot, fiberApp)
	system.RegisterClose(func() { _ = fiberApp.Shutdown() })

	go func() {
		sig := system.WaitSignal()
		log.WithField("signal", sig.String()).Info("服务退出")
	}()

	log.WithField("port", cfg.Port).Info("HTTP 服务启动")
	if err := fiberApp.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		system.RunCloses()
		return err
	}
	return nil
}
