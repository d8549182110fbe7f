package notifier

import (
	"fmt"
	"strings"
	"time"

	"hostpatrol/pkg/evaluator"
	"hostpatrol/pkg/patrol"
	"hostpatrol/pkg/sshx"
	"hostpatrol/pkg/tracker"
)

const maxServiceAlertLines = 10

// OverallLabel 整体结果：有失败为异常，有告警为告警
func OverallLabel(s *patrol.Summary) string {
	switch s.Overall() {
	case evaluator.StatusFailed:
		return "异常"
	case evaluator.StatusWarning:
		return "告警"
	default:
		return "无异常"
	}
}

// BuildContent 主机巡检结果的通知文本
func BuildContent(s *patrol.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "主机巡检结果\n时间: %s\n结果: %s", s.MonitorTime.Format(time.DateTime), OverallLabel(s))
	if s.Total > 0 {
		fmt.Fprintf(&b, "\n服务器总数: %d", s.Total)
		fmt.Fprintf(&b, "\n正常: %d, 告警: %d, 异常: %d", s.SuccessCount, s.WarningCount, s.FailedCount)
	}

	var alerts, failures []string
	for _, r := range s.Results {
		server := fmt.Sprintf("%s(%s)", r.ServerName, r.ServerIP)
		switch r.Status {
		case evaluator.StatusFailed:
			failures = append(failures, fmt.Sprintf("%s: %s", server, sshx.SimplifyText(r.ErrorMessage)))
		case evaluator.StatusWarning:
			for _, a := range r.Alerts {
				alerts = append(alerts, fmt.Sprintf("%s: %s - %s", server, strings.ToUpper(string(a.Type)), a.Message))
			}
		}
	}
	if len(alerts) > 0 {
		b.WriteString("\n\n告警信息:")
		for _, line := range alerts {
			b.WriteString("\n- " + line)
		}
	}
	if len(failures) > 0 {
		b.WriteString("\n\n异常信息:")
		for _, line := range failures {
			b.WriteString("\n- " + line)
		}
	}
	return b.String()
}

// BuildServiceAlert 服务监控告警文本，最多列出 10 个异常服务
func BuildServiceAlert(s *patrol.Summary, now time.Time) string {
	failing := s.FailingServices()

	var b strings.Builder
	fmt.Fprintf(&b, "服务监控告警\n时间: %s\n", now.Format(time.DateTime))
	fmt.Fprintf(&b, "总服务数: %d, 正常: %d, 异常: %d\n", s.Services.Total, s.Services.Normal, s.Services.Error)
	if len(failing) > 0 {
		b.WriteString("\n异常服务详情:\n")
		for i, svc := range failing {
			if i == maxServiceAlertLines {
				fmt.Fprintf(&b, "... 还有 %d 个异常服务\n", len(failing)-maxServiceAlertLines)
				break
			}
			status := "监控失败"
			if svc.Status == tracker.StateStopped {
				status = "已停止"
			}
			fmt.Fprintf(&b, "- %s(%s) | %s | %s\n", svc.ServerName, svc.ServerIP, svc.ServiceName, status)
		}
	}
	b.WriteString("\n更多内容可查看服务配置页面！")
	return b.String()
}

// DispatchMessage 分发结果的一句话说明
func DispatchMessage(d *patrol.Dispatch) string {
	if d == nil || len(d.Results) == 0 {
		return "没有启用的通知通道"
	}
	return fmt.Sprintf("通知发送完成，成功 %d/%d 个通道", d.Sent, len(d.Results))
}
