// Package notifier 把巡检结果格式化为文本，并投递到 webhook 通知通道
package notifier

import (
	"context"
	"time"

	"hostpatrol/pkg/core/config"
)

// 请求方式
const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

// 请求体模板中的占位符
const (
	PlaceholderContext = "#context#"
	PlaceholderURL     = "#url#"
)

const DefaultTimeout = 30 * time.Second

// Channel 一个 webhook 通知通道，OSS 凭证已解密
type Channel struct {
	ID          int64
	Name        string
	WebhookURL  string
	Method      string
	Timeout     time.Duration
	RequestBody string
	OSSEnabled  bool
	OSS         config.OssConfig
}

// Message 待分发的一条通知
type Message struct {
	// Content 替换 #context# 的文本
	Content string
	// ReportPath 报告文件，非空且通道启用了 OSS 时先上传再替换 #url#
	ReportPath string
}

// ArchiveFunc 上传报告文件并返回下载链接
type ArchiveFunc func(ctx context.Context, cfg config.OssConfig, localPath string) (string, error)
