package app

import (
	"context"
	"time"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/notifier"
	"hostpatrol/pkg/patrol"
	apidto "hostpatrol/system/monitor/api/dto"
)

// ExecuteAndReport 巡检全部启用服务器，生成报告并向通知通道分发。
// 报告或通知失败不影响巡检结果本身，失败原因体现在返回值中。
func (a *App) ExecuteAndReport(ctx context.Context, reportType string) (*apidto.ExecuteResult, error) {
	summary, err := a.Run(ctx, patrol.All(true))
	if err != nil {
		return nil, err
	}

	res := &apidto.ExecuteResult{
		TotalServers:  summary.Total,
		SuccessCount:  summary.SuccessCount,
		WarningCount:  summary.WarningCount,
		FailedCount:   summary.FailedCount,
		ExecutionTime: summary.ExecutionTime,
		MonitorTime:   summary.MonitorTime,
	}

	reporter, n := a.pipeline()
	var ref *patrol.ReportRef
	if reporter != nil {
		ref, err = reporter.Generate(ctx, summary, reportType)
		if err != nil {
			res.ReportError = errorc.ParseError(err).Message()
			a.log.WithErr(err).Error("生成巡检报告失败")
		} else {
			res.ReportID, res.ReportPath = ref.ID, ref.Path
		}
	}

	if n == nil {
		res.NotificationMessage = "未配置通知"
		return res, nil
	}
	dispatch, err := n.Notify(ctx, summary, ref)
	if err != nil {
		res.NotificationMessage = errorc.ParseError(err).Message()
		a.log.WithErr(err).Warn("发送巡检通知失败")
		return res, nil
	}
	res.NotificationSent = dispatch.OK()
	res.NotificationMessage = notifier.DispatchMessage(dispatch)
	if ref != nil {
		a.attachURL(ctx, reporter, ref.ID, dispatch)
	}
	return res, nil
}

// attachURL 取第一个上传成功通道的下载链接回写到报告
func (a *App) attachURL(ctx context.Context, reporter Reporter, reportID int64, d *patrol.Dispatch) {
	for _, r := range d.Results {
		if r.URL == "" {
			continue
		}
		if err := reporter.AttachURL(ctx, reportID, r.URL); err != nil {
			a.log.WithErr(err).Warn("回写报告OSS链接失败")
		}
		return
	}
}

// MonitorServer 巡检单台服务器，写日志但不出报告
func (a *App) MonitorServer(ctx context.Context, serverID int64) (*patrol.Summary, error) {
	return a.Run(ctx, patrol.Server(serverID, true))
}

// MonitorServices 只探测服务进程。范围为全部时，存在异常服务则发送服务告警
func (a *App) MonitorServices(ctx context.Context, plan patrol.Plan) (*patrol.Summary, error) {
	plan.IncludeHost = false
	summary, err := a.Run(ctx, plan)
	if err != nil {
		return nil, err
	}
	if plan.Kind == patrol.TargetAll {
		a.alertServices(ctx, summary)
	}
	return summary, nil
}

func (a *App) alertServices(ctx context.Context, summary *patrol.Summary) {
	failing := summary.FailingServices()
	if len(failing) == 0 {
		return
	}
	_, n := a.pipeline()
	if n == nil {
		return
	}
	content := notifier.BuildServiceAlert(summary, a.now())
	dispatch, err := n.SendText(ctx, content)
	if err != nil {
		a.log.WithErr(err).Warn("发送服务告警失败")
		return
	}
	a.log.WithField("failing", len(failing)).Info(notifier.DispatchMessage(dispatch))
}

// Cleanup 删除保留期之前的巡检日志与服务探测记录
func (a *App) Cleanup(ctx context.Context, retentionDays int) error {
	cutoff := a.now().AddDate(0, 0, -retentionDays)
	hostLogs, serviceLogs, err := a.LogService.Cleanup(ctx, cutoff)
	if err != nil {
		return err
	}
	a.invalidateDashboard(ctx)
	a.log.WithField("cutoff", cutoff.Format(time.DateTime)).
		WithField("logs", hostLogs).
		WithField("service_logs", serviceLogs).
		Info("巡检日志清理完成")
	return nil
}
