package model

import (
	"hostpatrol/pkg/core/model/common"
)

// ReportModel 已生成的巡检报告，ReportPath 指向本地 HTML 文件
type ReportModel struct {
	common.Model
	ReportName   string `gorm:"type:varchar(200);not null;comment:报告名称" json:"report_name"`
	ReportType   string `gorm:"type:varchar(20);not null;index;comment:manual/scheduled" json:"report_type"`
	ServerCount  int    `gorm:"not null;default:0" json:"server_count"`
	SuccessCount int    `gorm:"not null;default:0" json:"success_count"`
	WarningCount int    `gorm:"not null;default:0" json:"warning_count"`
	FailedCount  int    `gorm:"not null;default:0" json:"failed_count"`
	ReportPath   string `gorm:"type:varchar(500);not null;comment:报告文件路径" json:"report_path"`
	OSSURL       string `gorm:"column:oss_url;type:varchar(1000);comment:OSS下载链接" json:"oss_url"`
}

func (ReportModel) TableName() string {
	return "patrol_reports"
}
