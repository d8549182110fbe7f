package model

import (
	"hostpatrol/pkg/core/model/common"
)

const (
	MethodGet  = "GET"
	MethodPost = "POST"

	DefaultTimeout      = 30
	DefaultFolderPath   = "reports"
	DefaultExpiresHours = 24
)

// NotificationChannelModel webhook 通知通道，OSS 访问密钥加密存储
type NotificationChannelModel struct {
	common.Model
	Name               string `gorm:"type:varchar(100);not null;comment:通道名称" json:"name"`
	WebhookURL         string `gorm:"type:varchar(500);not null;comment:Webhook地址" json:"webhook_url"`
	Method             string `gorm:"type:varchar(10);not null;default:POST;comment:请求方式" json:"method"`
	Timeout            int    `gorm:"not null;default:30;comment:超时(秒)" json:"timeout"`
	IsEnabled          bool   `gorm:"not null;index;comment:是否启用" json:"is_enabled"`
	RequestBody        string `gorm:"type:text;comment:请求体模板" json:"request_body"`
	OSSEnabled         bool   `gorm:"column:oss_enabled;not null;default:false;comment:是否上传报告到OSS" json:"oss_enabled"`
	OSSEndpoint        string `gorm:"column:oss_endpoint;type:varchar(255)" json:"oss_endpoint"`
	OSSRegion          string `gorm:"column:oss_region;type:varchar(64)" json:"oss_region"`
	OSSBucket          string `gorm:"column:oss_bucket;type:varchar(100)" json:"oss_bucket"`
	OSSAccessKeyID     string `gorm:"column:oss_access_key_id;type:varchar(128)" json:"oss_access_key_id"`
	OSSAccessKeySecret string `gorm:"column:oss_access_key_secret;type:varchar(512);comment:加密后的密钥" json:"-"`
	OSSFolderPath      string `gorm:"column:oss_folder_path;type:varchar(255)" json:"oss_folder_path"`
	OSSExpiresHours    int    `gorm:"column:oss_expires_hours;not null;default:24" json:"oss_expires_hours"`
}

func (NotificationChannelModel) TableName() string {
	return "patrol_notification_channels"
}

// HasOSSSecret 页面只展示是否已配置密钥
func (m *NotificationChannelModel) HasOSSSecret() bool {
	return m.OSSAccessKeySecret != ""
}
