package dto

import "hostpatrol/pkg/core/mvc"

// CreateServerRequest 创建服务器请求，password 与 private_key_path 必须且只能填写一项
type CreateServerRequest struct {
	Name           string `json:"name" validate:"required,max=100" comment:"服务器名称"`
	Host           string `json:"host" validate:"required,max=255,hostname_or_ip" comment:"主机地址"`
	Port           int    `json:"port" validate:"omitempty,min=1,max=65535" comment:"SSH端口"`
	Username       string `json:"username" validate:"required,max=100" comment:"用户名"`
	AuthType       string `json:"auth_type" validate:"omitempty,oneof=password privatekey" comment:"认证方式"`
	Password       string `json:"password" validate:"max=200" comment:"密码"`
	PrivateKeyPath string `json:"private_key_path" validate:"max=500" comment:"私钥路径"`
	Status         string `json:"status" validate:"omitempty,oneof=active inactive" comment:"状态"`
	Description    string `json:"description" validate:"max=500" comment:"描述"`
}

// UpdateServerRequest 更新服务器请求，nil 字段保持不变
type UpdateServerRequest struct {
	Name           *string `json:"name" validate:"omitempty,max=100" comment:"服务器名称"`
	Host           *string `json:"host" validate:"omitempty,max=255,hostname_or_ip" comment:"主机地址"`
	Port           *int    `json:"port" validate:"omitempty,min=1,max=65535" comment:"SSH端口"`
	Username       *string `json:"username" validate:"omitempty,max=100" comment:"用户名"`
	AuthType       *string `json:"auth_type" validate:"omitempty,oneof=password privatekey" comment:"认证方式"`
	Password       *string `json:"password" validate:"omitempty,max=200" comment:"密码"`
	PrivateKeyPath *string `json:"private_key_path" validate:"omitempty,max=500" comment:"私钥路径"`
	Status         *string `json:"status" validate:"omitempty,oneof=active inactive" comment:"状态"`
	Description    *string `json:"description" validate:"omitempty,max=500" comment:"描述"`
}

// QueryServerRequest 服务器列表查询
type QueryServerRequest struct {
	mvc.Page
	Keyword string `query:"keyword"`
	Status  string `query:"status"`
}

// TestConnectionRequest 未保存的连接参数测试
type TestConnectionRequest struct {
	Host           string `json:"host" validate:"required,hostname_or_ip" comment:"主机地址"`
	Port           int    `json:"port" validate:"omitempty,min=1,max=65535" comment:"SSH端口"`
	Username       string `json:"username" validate:"required" comment:"用户名"`
	Password       string `json:"password" comment:"密码"`
	PrivateKeyPath string `json:"private_key_path" comment:"私钥路径"`
}

type BatchTestRequest struct {
	ServerIDs []int64 `json:"server_ids" validate:"required,min=1,dive,gt=0" comment:"服务器ID"`
}

type BulkDeleteServerRequest struct {
	ServerIDs []int64 `json:"server_ids" validate:"required,min=1" comment:"服务器ID"`
}

// TestResult 一次连接测试的结果
type TestResult struct {
	ServerID     int64   `json:"server_id,omitempty"`
	ServerName   string  `json:"server_name,omitempty"`
	ServerHost   string  `json:"server_host"`
	Success      bool    `json:"success"`
	Message      string  `json:"message"`
	ResponseTime float64 `json:"response_time"` // 秒
}

// ServerWithStats 服务器及其服务统计
type ServerWithStats struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Host               string `json:"host"`
	Port               int    `json:"port"`
	Username           string `json:"username"`
	Status             string `json:"status"`
	Description        string `json:"description"`
	TotalServices      int    `json:"total_services"`
	MonitoringServices int    `json:"monitoring_services"`
	NormalServices     int    `json:"normal_services"`
	ErrorServices      int    `json:"error_services"`
}

// ImportServerItem 批量导入中的一台服务器，字段同创建请求
type ImportServerItem = CreateServerRequest

type ImportServersRequest struct {
	Servers []ImportServerItem `json:"servers" validate:"required,min=1" comment:"服务器列表"`
}

// ImportFailure 导入失败项
type ImportFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// ImportResult 批量导入汇总
type ImportResult struct {
	Total       int             `json:"total"`
	Success     int             `json:"success"`
	Failed      int             `json:"failed"`
	FailedItems []ImportFailure `json:"failed_items"`
}

func (r *ImportResult) Fail(name string, err string) {
	r.Failed++
	r.FailedItems = append(r.FailedItems, ImportFailure{Name: name, Error: err})
}
