package service

import (
	"context"

	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/core/mvc"
	"hostpatrol/system/report/internal/dao"
	"hostpatrol/system/report/internal/model"

	"gorm.io/gorm"
)

// ReportService 报告记录服务层
type ReportService struct {
	mvc.IBaseService[model.ReportModel]
	dao *dao.ReportDao
	log *logger.Log
}

func NewReportService(db *gorm.DB, log *logger.Log) *ReportService {
	reportDao := dao.NewReportDao(db, log)
	return &ReportService{
		IBaseService: mvc.NewBaseService[model.ReportModel](reportDao),
		dao:          reportDao,
		log:          log.WithEntryName("ReportService"),
	}
}

func (s *ReportService) QueryWithPage(ctx context.Context, f dao.ReportFilter, page *mvc.Page) ([]*model.ReportModel, int64, error) {
	return s.dao.QueryWithPage(ctx, f, page)
}

func (s *ReportService) SetOSSURL(ctx context.Context, id int64, url string) error {
	return s.dao.SetOSSURL(ctx, id, url)
}
