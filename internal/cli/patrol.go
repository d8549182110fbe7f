package cli

import (
	"context"
	"fmt"
	"io"

	"hostpatrol/app"
	"hostpatrol/base"
	"hostpatrol/pkg/core/system"
	"hostpatrol/pkg/db"
	"hostpatrol/pkg/patrol"
	monitordto "hostpatrol/system/monitor/api/dto"

	"github.com/spf13/cobra"
)

var patrolServicesOnly bool

var patrolCmd = &cobra.Command{
	Use:   "patrol",
	Short: "立即执行一次巡检",
	Long: `巡检全部启用的服务器，生成报告并推送通知，执行完退出。

Examples:
  hostpatrol patrol --env prod
  hostpatrol patrol --services`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return patrolCommand(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(patrolCmd)
	patrolCmd.Flags().BoolVar(&patrolServicesOnly, "services", false, "只执行服务进程监控，不生成报告")
}

func patrolCommand(ctx context.Context, out io.Writer) error {
	configures, err := bootstrap()
	if err != nil {
		return err
	}
	defer system.RunCloses()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := db.AutoMigrate(base.DB); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	cfg := configures.Config
	ctx, cancel := context.WithTimeout(ctx, cfg.Monitor.RunTimeoutDuration())
	defer cancel()

	// 单次执行不启动调度器
	appRoot := app.NewApp(cfg, newScheduler(cfg.Scheduler))
	monitor := appRoot.MonitorModule.Client

	if patrolServicesOnly {
		summary, err := monitor.MonitorAllServices(ctx)
		if err != nil {
			return err
		}
		printServices(out, summary)
		return nil
	}

	res, err := monitor.ExecuteAndReport(ctx, patrol.ReportManual)
	if err != nil {
		return err
	}
	printResult(out, res)
	return nil
}

func printResult(out io.Writer, res *monitordto.ExecuteResult) {
	fmt.Fprintf(out, "巡检完成：共 %d 台，正常 %d，警告 %d，失败 %d，耗时 %.2f 秒\n",
		res.TotalServers, res.SuccessCount, res.WarningCount, res.FailedCount, res.ExecutionTime)
	if res.ReportError != "" {
		fmt.Fprintf(out, "报告生成失败：%s\n", res.ReportError)
	} else if res.ReportPath != "" {
		fmt.Fprintf(out, "报告：%s\n", res.ReportPath)
	}
	if res.NotificationMessage != "" {
		fmt.Fprintf(out, "通知：%s\n", res.NotificationMessage)
	}
}

func printServices(out io.Writer, s *patrol.Summary) {
	fmt.Fprintf(out, "服务监控完成：共 %d 个服务，正常 %d，异常 %d\n",
		s.Services.Total, s.Services.Normal, s.Services.Error)
}
