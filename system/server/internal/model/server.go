package model

import (
	"hostpatrol/pkg/core/model/common"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	AuthPassword   = "password"
	AuthPrivateKey = "privatekey"

	DefaultSSHPort = 22
)

// ServerModel 被巡检的主机，密码与私钥路径二选一
type ServerModel struct {
	common.Model
	Name           string `gorm:"type:varchar(100);not null;uniqueIndex;comment:服务器名称" json:"name"`
	Host           string `gorm:"type:varchar(255);not null;index:idx_patrol_server_addr;comment:主机地址" json:"host"`
	Port           int    `gorm:"not null;index:idx_patrol_server_addr;comment:SSH端口" json:"port"`
	Username       string `gorm:"type:varchar(100);not null;comment:登录用户" json:"username"`
	AuthType       string `gorm:"type:varchar(20);not null;comment:认证方式" json:"auth_type"`
	Password       string `gorm:"type:varchar(512);comment:加密后的密码" json:"-"`
	PrivateKeyPath string `gorm:"type:varchar(500);comment:私钥路径" json:"private_key_path"`
	Status         string `gorm:"type:varchar(20);not null;index;comment:状态" json:"status"`
	Description    string `gorm:"type:varchar(500);comment:描述" json:"description"`
}

// TableName 设置表名
func (ServerModel) TableName() string {
	return "patrol_servers"
}

func (s *ServerModel) IsActive() bool {
	return s.Status == StatusActive
}
