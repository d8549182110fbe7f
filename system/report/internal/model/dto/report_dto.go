package dto

import (
	"hostpatrol/pkg/core/mvc"
)

// QueryReportRequest 报告列表筛选，日期为 YYYY-MM-DD
type QueryReportRequest struct {
	mvc.Page
	ReportType string `query:"type" validate:"omitempty,oneof=manual scheduled" comment:"报告类型"`
	StartDate  string `query:"start_date"`
	EndDate    string `query:"end_date"`
}

type BulkDeleteReportRequest struct {
	ReportIDs []int64 `json:"report_ids" validate:"required,min=1" comment:"报告ID"`
}
