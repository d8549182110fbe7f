package dto

import (
	"time"

	"hostpatrol/pkg/core/mvc"
	"hostpatrol/pkg/tracker"
)

type CreateServiceRequest struct {
	ServerID     int64  `json:"server_id" validate:"required,gt=0" comment:"服务器"`
	ServiceName  string `json:"service_name" validate:"required,max=100" comment:"服务名称"`
	ProcessName  string `json:"process_name" validate:"required,max=200" comment:"进程名称"`
	IsMonitoring *bool  `json:"is_monitoring" comment:"是否监控"`
	Description  string `json:"description" validate:"max=500" comment:"描述"`
}

type UpdateServiceRequest struct {
	ServerID     *int64  `json:"server_id" validate:"omitempty,gt=0" comment:"服务器"`
	ServiceName  *string `json:"service_name" validate:"omitempty,min=1,max=100" comment:"服务名称"`
	ProcessName  *string `json:"process_name" validate:"omitempty,min=1,max=200" comment:"进程名称"`
	IsMonitoring *bool   `json:"is_monitoring" comment:"是否监控"`
	Description  *string `json:"description" validate:"omitempty,max=500" comment:"描述"`
}

type QueryServiceRequest struct {
	mvc.Page
	ServerID int64  `query:"server_id"`
	Keyword  string `query:"keyword"`
}

// ServiceView 服务配置及其展示状态
type ServiceView struct {
	ID                 int64                `json:"id"`
	ServerID           int64                `json:"server_id"`
	ServerName         string               `json:"server_name"`
	ServiceName        string               `json:"service_name"`
	ProcessName        string               `json:"process_name"`
	IsMonitoring       bool                 `json:"is_monitoring"`
	Description        string               `json:"description"`
	LatestStatus       string               `json:"latest_status"`
	LatestProcessCount int                  `json:"latest_process_count"`
	LastMonitorTime    *time.Time           `json:"last_monitor_time"`
	FirstErrorTime     *time.Time           `json:"first_error_time"`
	Display            tracker.DisplayState `json:"display"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// ServerServices 一台服务器及其全部服务
type ServerServices struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	Host     string         `json:"host"`
	Port     int            `json:"port"`
	Status   string         `json:"status"`
	Services []*ServiceView `json:"services"`
}

type ImportServiceItem struct {
	ServerName   string `json:"server_name" validate:"required" comment:"服务器名称"`
	ServiceName  string `json:"service_name" validate:"required,max=100" comment:"服务名称"`
	ProcessName  string `json:"process_name" validate:"required,max=200" comment:"进程名称"`
	IsMonitoring *bool  `json:"is_monitoring" comment:"是否监控"`
	Description  string `json:"description" validate:"max=500" comment:"描述"`
}

type ImportServicesRequest struct {
	Services []ImportServiceItem `json:"services" validate:"required,min=1" comment:"服务列表"`
}
