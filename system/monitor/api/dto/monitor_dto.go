package dto

import (
	"time"

	"hostpatrol/pkg/collector/parser"
	"hostpatrol/pkg/patrol"
	serverdto "hostpatrol/system/server/api/dto"
)

// ExecuteResult 手动或定时巡检并出报告、发通知的结果
type ExecuteResult struct {
	TotalServers        int       `json:"total_servers"`
	SuccessCount        int       `json:"success_count"`
	WarningCount        int       `json:"warning_count"`
	FailedCount         int       `json:"failed_count"`
	ExecutionTime       float64   `json:"execution_time"`
	MonitorTime         time.Time `json:"monitor_time"`
	ReportID            int64     `json:"report_id,omitempty"`
	ReportPath          string    `json:"report_path"`
	ReportError         string    `json:"report_error,omitempty"`
	NotificationSent    bool      `json:"notification_sent"`
	NotificationMessage string    `json:"notification_message"`
}

// ServerStatus 仪表盘上一台服务器的最近一次巡检
type ServerStatus struct {
	ServerName    string           `json:"server_name"`
	Status        string           `json:"status"`
	CPUUsage      *float64         `json:"cpu_usage"`
	MemoryUsage   *float64         `json:"memory_usage"`
	DiskInfo      []parser.DiskRow `json:"disk_info"`
	AlertCount    int              `json:"alert_count"`
	MonitorTime   time.Time        `json:"monitor_time"`
	ExecutionTime float64          `json:"execution_time"`
}

// Dashboard 仪表盘数据，server_status 以服务器 ID 为键
type Dashboard struct {
	TotalServers     int64                       `json:"total_servers"`
	SuccessCount     int                         `json:"success_count"`
	WarningCount     int                         `json:"warning_count"`
	FailedCount      int                         `json:"failed_count"`
	ServerStatus     map[int64]ServerStatus      `json:"server_status"`
	ServicesOverview *serverdto.ServicesOverview `json:"services_overview"`
}

// ServiceRunResult 一次服务探测的结果
type ServiceRunResult struct {
	patrol.ServiceStats
	Services      []patrol.ServiceResult `json:"services"`
	ExecutionTime float64                `json:"execution_time"`
	MonitorTime   time.Time              `json:"monitor_time"`
}

// NewServiceRunResult 展开各主机下的服务结果
func NewServiceRunResult(s *patrol.Summary) *ServiceRunResult {
	res := &ServiceRunResult{
		ServiceStats:  s.Services,
		Services:      []patrol.ServiceResult{},
		ExecutionTime: s.ExecutionTime,
		MonitorTime:   s.MonitorTime,
	}
	for _, r := range s.Results {
		res.Services = append(res.Services, r.Services...)
	}
	return res
}
