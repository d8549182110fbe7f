package dao

import (
	"context"
	"time"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/core/mvc"
	"hostpatrol/system/report/internal/model"

	"gorm.io/gorm"
)

// ReportFilter 报告查询条件，To 不含
type ReportFilter struct {
	ReportType string
	From       *time.Time
	To         *time.Time
}

// ReportDao 报告数据访问层
type ReportDao struct {
	mvc.IBaseDao[model.ReportModel]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

func NewReportDao(db *gorm.DB, log *logger.Log) *ReportDao {
	return &ReportDao{
		IBaseDao: mvc.NewGormDao[model.ReportModel](db),
		log:      log.WithEntryName("ReportDao"),
		err:      errorc.NewErrorBuilder("ReportDao"),
		db:       db,
	}
}

// QueryWithPage 按生成时间倒序分页
func (d *ReportDao) QueryWithPage(ctx context.Context, f ReportFilter, page *mvc.Page) ([]*model.ReportModel, int64, error) {
	query := d.db.WithContext(ctx).Model(&model.ReportModel{})
	if f.ReportType != "" {
		query = query.Where("report_type = ?", f.ReportType)
	}
	if f.From != nil {
		query = query.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("created_at < ?", *f.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, d.err.New("统计报告失败", err).DB()
	}

	var reports []*model.ReportModel
	if err := query.Order("created_at DESC, id DESC").Scopes(mvc.Paginate(page)).Find(&reports).Error; err != nil {
		return nil, 0, d.err.New("查询报告失败", err).DB()
	}
	return reports, total, nil
}

// SetOSSURL 回写 OSS 下载链接
func (d *ReportDao) SetOSSURL(ctx context.Context, id int64, url string) error {
	err := d.db.WithContext(ctx).Model(&model.ReportModel{}).Where("id = ?", id).Update("oss_url", url).Error
	if err != nil {
		return d.err.New("更新报告OSS链接失败", err).DB()
	}
	return nil
}
