package model

import (
	"time"

	"hostpatrol/pkg/core/model/common"
)

// ServiceConfigModel 主机上需要检查进程的服务，状态字段由巡检写回
type ServiceConfigModel struct {
	common.Model
	ServerID           int64      `gorm:"not null;uniqueIndex:uk_patrol_service_name;comment:所属服务器" json:"server_id"`
	ServiceName        string     `gorm:"type:varchar(100);not null;uniqueIndex:uk_patrol_service_name;comment:服务名称" json:"service_name"`
	ProcessName        string     `gorm:"type:varchar(200);not null;comment:进程匹配串" json:"process_name"`
	IsMonitoring       bool       `gorm:"not null;comment:是否监控" json:"is_monitoring"`
	Description        string     `gorm:"type:varchar(500);comment:描述" json:"description"`
	LatestStatus       string     `gorm:"type:varchar(20);not null;comment:最近状态" json:"latest_status"`
	LatestProcessCount int        `gorm:"not null;comment:最近进程数" json:"latest_process_count"`
	LastMonitorTime    *time.Time `gorm:"comment:最近巡检时间" json:"last_monitor_time"`
	FirstErrorTime     *time.Time `gorm:"comment:首次异常时间" json:"first_error_time"`
}

// TableName 设置表名
func (ServiceConfigModel) TableName() string {
	return "patrol_services"
}
