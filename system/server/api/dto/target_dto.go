package dto

import (
	"time"

	"hostpatrol/pkg/sshx"
	"hostpatrol/pkg/tracker"
)

// ServiceState 一个服务的配置与当前状态
type ServiceState struct {
	ID             int64
	ServerID       int64
	ServiceName    string
	ProcessName    string
	IsMonitoring   bool
	LatestStatus   tracker.State
	FirstErrorTime *time.Time
}

// ServerTarget 巡检目标：一台主机及其需要探测的服务。
// CredentialErr 非空表示凭证无法解密，该主机直接记为失败。
type ServerTarget struct {
	ServerID      int64
	Name          string
	Host          string
	Port          int
	Target        sshx.Target
	CredentialErr string
	Services      []ServiceState
}

// ServiceStatusUpdate 巡检后写回的服务状态
type ServiceStatusUpdate struct {
	ServiceID      int64
	State          tracker.State
	ProcessCount   int
	FirstErrorTime *time.Time
	MonitorTime    time.Time
}

// ServicesOverview 仪表盘使用的服务总览
type ServicesOverview struct {
	Total      int64 `json:"total"`
	Monitoring int64 `json:"monitoring"`
	Running    int64 `json:"running"`
	Stopped    int64 `json:"stopped"`
	Error      int64 `json:"error"`
	Unknown    int64 `json:"unknown"`
}

// ServerBrief 日志、仪表盘展示用的服务器摘要
type ServerBrief struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Host   string `json:"host"`
	Status string `json:"status"`
}
