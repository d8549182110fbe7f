package dto

import (
	"hostpatrol/pkg/core/mvc"
	"hostpatrol/system/monitor/internal/model"
)

// QueryLogRequest 监控日志查询条件，日期为 YYYY-MM-DD，结束日期包含当天
type QueryLogRequest struct {
	mvc.Page
	ServerID  int64  `query:"server_id"`
	Status    string `query:"status" validate:"omitempty,oneof=success warning failed" comment:"状态"`
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

// BulkDeleteLogRequest 批量删除日志
type BulkDeleteLogRequest struct {
	LogIDs []int64 `json:"log_ids" validate:"required,min=1" comment:"日志ID"`
}

// LogView 日志及服务器名称
type LogView struct {
	*model.MonitorLogModel
	ServerName string `json:"server_name"`
	ServerIP   string `json:"server_ip"`
}

// QueryServiceLogRequest 服务探测历史
type QueryServiceLogRequest struct {
	mvc.Page
	ServiceID int64 `query:"service_id"`
}
