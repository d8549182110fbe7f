package dto

import (
	"hostpatrol/pkg/patrol"
	"hostpatrol/system/notification/internal/model"
)

// CreateChannelRequest 创建通知通道
type CreateChannelRequest struct {
	Name               string `json:"name" validate:"required,max=100" comment:"通道名称"`
	WebhookURL         string `json:"webhook_url" validate:"required,url,max=500" comment:"Webhook地址"`
	Method             string `json:"method" validate:"omitempty,oneof=GET POST get post" comment:"请求方式"`
	Timeout            int    `json:"timeout" validate:"omitempty,min=1,max=300" comment:"超时时间"`
	IsEnabled          *bool  `json:"is_enabled" comment:"是否启用"`
	RequestBody        string `json:"request_body" comment:"请求体模板"`
	OSSEnabled         bool   `json:"oss_enabled" comment:"启用OSS"`
	OSSEndpoint        string `json:"oss_endpoint" validate:"max=255" comment:"OSS Endpoint"`
	OSSRegion          string `json:"oss_region" validate:"max=64" comment:"OSS Region"`
	OSSBucket          string `json:"oss_bucket" validate:"max=100" comment:"OSS Bucket"`
	OSSAccessKeyID     string `json:"oss_access_key_id" validate:"max=128" comment:"AccessKey ID"`
	OSSAccessKeySecret string `json:"oss_access_key_secret" validate:"max=256" comment:"AccessKey Secret"`
	OSSFolderPath      string `json:"oss_folder_path" validate:"max=255" comment:"OSS目录"`
	OSSExpiresHours    int    `json:"oss_expires_hours" validate:"omitempty,min=1,max=168" comment:"链接有效期"`
}

// UpdateChannelRequest 更新通知通道，nil 字段保持不变，空密钥表示不修改
type UpdateChannelRequest struct {
	Name               *string `json:"name" validate:"omitempty,max=100" comment:"通道名称"`
	WebhookURL         *string `json:"webhook_url" validate:"omitempty,url,max=500" comment:"Webhook地址"`
	Method             *string `json:"method" validate:"omitempty,oneof=GET POST get post" comment:"请求方式"`
	Timeout            *int    `json:"timeout" validate:"omitempty,min=1,max=300" comment:"超时时间"`
	IsEnabled          *bool   `json:"is_enabled" comment:"是否启用"`
	RequestBody        *string `json:"request_body" comment:"请求体模板"`
	OSSEnabled         *bool   `json:"oss_enabled" comment:"启用OSS"`
	OSSEndpoint        *string `json:"oss_endpoint" validate:"omitempty,max=255" comment:"OSS Endpoint"`
	OSSRegion          *string `json:"oss_region" validate:"omitempty,max=64" comment:"OSS Region"`
	OSSBucket          *string `json:"oss_bucket" validate:"omitempty,max=100" comment:"OSS Bucket"`
	OSSAccessKeyID     *string `json:"oss_access_key_id" validate:"omitempty,max=128" comment:"AccessKey ID"`
	OSSAccessKeySecret *string `json:"oss_access_key_secret" validate:"omitempty,max=256" comment:"AccessKey Secret"`
	OSSFolderPath      *string `json:"oss_folder_path" validate:"omitempty,max=255" comment:"OSS目录"`
	OSSExpiresHours    *int    `json:"oss_expires_hours" validate:"omitempty,min=1,max=168" comment:"链接有效期"`
}

// ChannelView 通道详情，不返回密钥原文
type ChannelView struct {
	*model.NotificationChannelModel
	HasOSSSecret bool `json:"has_oss_secret"`
}

func NewChannelView(m *model.NotificationChannelModel) *ChannelView {
	return &ChannelView{NotificationChannelModel: m, HasOSSSecret: m.HasOSSSecret()}
}

// TestResult 通道测试结果
type TestResult struct {
	patrol.ChannelResult
	Content string `json:"content"`
}
