package model

import (
	"time"

	"hostpatrol/pkg/collector/parser"
	"hostpatrol/pkg/core/model/common"
	"hostpatrol/pkg/evaluator"
)

// MonitorLogModel 一台主机一次巡检的结果，写入后不再修改
type MonitorLogModel struct {
	ID            int64                                  `gorm:"primaryKey" json:"id"`
	ServerID      int64                                  `gorm:"not null;index:idx_patrol_log_server_time,priority:1" json:"server_id" comment:"服务器ID"`
	MonitorTime   time.Time                              `gorm:"not null;index:idx_patrol_log_server_time,priority:2;index" json:"monitor_time" comment:"巡检时间"`
	Status        string                                 `gorm:"size:20;not null;index" json:"status" comment:"success/warning/failed"`
	CPUUsage      *float64                               `json:"cpu_usage" comment:"CPU使用率"`
	MemoryUsage   *float64                               `json:"memory_usage" comment:"内存使用率"`
	SystemInfo    common.JSONValue[*parser.SystemInfo]   `gorm:"type:text" json:"system_info" comment:"系统信息"`
	MemoryInfo    common.JSONValue[*parser.MemoryInfo]   `gorm:"type:text" json:"memory_info" comment:"内存详情"`
	DiskInfo      common.JSONValue[[]parser.DiskRow]     `gorm:"type:text" json:"disk_info" comment:"磁盘信息"`
	AlertInfo     common.JSONValue[[]evaluator.Alert]    `gorm:"type:text" json:"alert_info" comment:"告警信息"`
	ExecutionTime float64                                `json:"execution_time" comment:"耗时(秒)"`
	ErrorMessage  string                                 `gorm:"type:text" json:"error_message" comment:"错误信息"`
	CreatedAt     time.Time                              `json:"created_at"`
}

func (MonitorLogModel) TableName() string {
	return "patrol_monitor_logs"
}

// ServiceMonitorLogModel 一个服务一次进程探测的结果
type ServiceMonitorLogModel struct {
	ID           int64                              `gorm:"primaryKey" json:"id"`
	ServiceID    int64                              `gorm:"not null;index:idx_patrol_svc_log_time,priority:1" json:"service_id" comment:"服务ID"`
	ServerID     int64                              `gorm:"not null;index" json:"server_id" comment:"服务器ID"`
	MonitorTime  time.Time                          `gorm:"not null;index:idx_patrol_svc_log_time,priority:2;index" json:"monitor_time" comment:"探测时间"`
	Status       string                             `gorm:"size:20;not null" json:"status" comment:"running/stopped/error"`
	ProcessCount int                                `json:"process_count" comment:"进程数"`
	ProcessInfo  common.JSONValue[[]parser.Process] `gorm:"type:text" json:"process_info" comment:"进程信息"`
	ErrorMessage string                             `gorm:"type:text" json:"error_message" comment:"错误信息"`
	CreatedAt    time.Time                          `json:"created_at"`
}

func (ServiceMonitorLogModel) TableName() string {
	return "patrol_service_monitor_logs"
}
