// Package patrol 定义一次巡检的目标、单机结果与汇总，供巡检、报告、通知三方共用。
package patrol

import (
	"time"

	"hostpatrol/pkg/collector"
	"hostpatrol/pkg/collector/parser"
	"hostpatrol/pkg/evaluator"
	"hostpatrol/pkg/tracker"
)

// TargetKind 巡检范围
type TargetKind int

const (
	TargetAll TargetKind = iota
	TargetServer
	TargetService
)

func (k TargetKind) String() string {
	switch k {
	case TargetServer:
		return "server"
	case TargetService:
		return "service"
	default:
		return "all"
	}
}

// Plan 一次巡检的范围。IncludeHost 为 false 时只探测服务进程，不采集主机指标、不写主机巡检日志
type Plan struct {
	Kind        TargetKind
	ID          int64
	IncludeHost bool
}

// All 全部启用服务器
func All(includeHost bool) Plan {
	return Plan{Kind: TargetAll, IncludeHost: includeHost}
}

// Server 单台服务器，不论其启用状态
func Server(id int64, includeHost bool) Plan {
	return Plan{Kind: TargetServer, ID: id, IncludeHost: includeHost}
}

// Service 单个服务，只探测进程
func Service(id int64) Plan {
	return Plan{Kind: TargetService, ID: id}
}

// ServiceResult 一个服务的一次探测结果
type ServiceResult struct {
	ServiceID      int64            `json:"service_id"`
	ServerID       int64            `json:"server_id"`
	ServiceName    string           `json:"service_name"`
	ProcessName    string           `json:"process_name"`
	ServerName     string           `json:"server_name"`
	ServerIP       string           `json:"server_ip"`
	Status         tracker.State    `json:"status"`
	ProcessCount   int              `json:"process_count"`
	ProcessInfo    []parser.Process `json:"process_info"`
	ErrorMessage   string           `json:"error_message"`
	FirstErrorTime *time.Time       `json:"first_error_time"`
	// Changed 本次探测使状态发生了变化
	Changed bool `json:"changed"`
}

// HostResult 一台主机的巡检结果，未采集到的指标为 nil
type HostResult struct {
	ServerID      int64                  `json:"server_id"`
	ServerName    string                 `json:"server_name"`
	ServerIP      string                 `json:"server_ip"`
	Status        evaluator.Status       `json:"status"`
	CPUUsage      *float64               `json:"cpu_usage"`
	MemoryUsage   *float64               `json:"memory_usage"`
	MemoryInfo    *parser.MemoryInfo     `json:"memory_info"`
	DiskInfo      []parser.DiskRow       `json:"disk_info"`
	SystemInfo    *parser.SystemInfo     `json:"system_info"`
	Alerts        []evaluator.Alert      `json:"alerts"`
	ProbeErrors   []collector.ProbeError `json:"probe_errors,omitempty"`
	ErrorMessage  string                 `json:"error_message"`
	ExecutionTime float64                `json:"execution_time"`
	MonitorTime   time.Time              `json:"monitor_time"`
	Services      []ServiceResult        `json:"services"`
}

// ServiceStats 服务探测统计
type ServiceStats struct {
	Total  int `json:"total_services"`
	Normal int `json:"normal_services"`
	Error  int `json:"error_services"`
}

// Summary 一次巡检的汇总
type Summary struct {
	Total         int                  `json:"total_servers"`
	SuccessCount  int                  `json:"success_count"`
	WarningCount  int                  `json:"warning_count"`
	FailedCount   int                  `json:"failed_count"`
	Results       []HostResult         `json:"results"`
	ExecutionTime float64              `json:"execution_time"`
	Thresholds    evaluator.Thresholds `json:"thresholds"`
	MonitorTime   time.Time            `json:"monitor_time"`
	Services      ServiceStats         `json:"services"`
}

// Tally 按 Results 重新计算各项计数
func (s *Summary) Tally() {
	s.Total = len(s.Results)
	s.SuccessCount, s.WarningCount, s.FailedCount = 0, 0, 0
	s.Services = ServiceStats{}
	for _, r := range s.Results {
		switch r.Status {
		case evaluator.StatusSuccess:
			s.SuccessCount++
		case evaluator.StatusWarning:
			s.WarningCount++
		default:
			s.FailedCount++
		}
		for _, svc := range r.Services {
			s.Services.Total++
			if svc.Status == tracker.StateRunning {
				s.Services.Normal++
			} else {
				s.Services.Error++
			}
		}
	}
}

// FailingServices 处于 stopped 或 error 的服务，顺序与 Results 一致
func (s *Summary) FailingServices() []ServiceResult {
	var out []ServiceResult
	for _, r := range s.Results {
		for _, svc := range r.Services {
			if svc.Status.Failing() {
				out = append(out, svc)
			}
		}
	}
	return out
}

// AlertCount 全部主机的告警条数
func (s *Summary) AlertCount() int {
	n := 0
	for _, r := range s.Results {
		n += len(r.Alerts)
	}
	return n
}

// Overall 整体结论：有失败为 failed，有告警为 warning，否则 success
func (s *Summary) Overall() evaluator.Status {
	switch {
	case s.FailedCount > 0:
		return evaluator.StatusFailed
	case s.WarningCount > 0:
		return evaluator.StatusWarning
	default:
		return evaluator.StatusSuccess
	}
}

// ReportRef 已生成的报告产物
type ReportRef struct {
	ID   int64  `json:"id"`
	Name string `json:"report_name"`
	Path string `json:"report_path"`
}

// Report 类型
const (
	ReportManual    = "manual"
	ReportScheduled = "scheduled"
)

// ChannelResult 单个通知通道的一次投递结果
type ChannelResult struct {
	ChannelID   int64  `json:"channel_id"`
	ChannelName string `json:"channel_name"`
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	URL         string `json:"url,omitempty"`
}

// Dispatch 一次通知分发的汇总
type Dispatch struct {
	Sent    int             `json:"sent"`
	Failed  int             `json:"failed"`
	Results []ChannelResult `json:"results"`
}

// Add 追加一条通道结果
func (d *Dispatch) Add(r ChannelResult) {
	if r.Success {
		d.Sent++
	} else {
		d.Failed++
	}
	d.Results = append(d.Results, r)
}

// OK 至少一个通道投递成功
func (d *Dispatch) OK() bool {
	return d != nil && d.Sent > 0
}
