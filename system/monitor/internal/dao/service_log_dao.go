package dao

import (
	"context"
	"time"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/core/mvc"
	"hostpatrol/system/monitor/internal/model"

	"gorm.io/gorm"
)

type ServiceLogDao struct {
	mvc.IBaseDao[model.ServiceMonitorLogModel]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

func NewServiceLogDao(db *gorm.DB, log *logger.Log) *ServiceLogDao {
	return &ServiceLogDao{
		IBaseDao: mvc.NewGormDao[model.ServiceMonitorLogModel](db),
		log:      log.WithEntryName("ServiceLogDao"),
		err:      errorc.NewErrorBuilder("ServiceLogDao"),
		db:       db,
	}
}

func (d *ServiceLogDao) Tx(tx *gorm.DB) *ServiceLogDao {
	return &ServiceLogDao{
		IBaseDao: d.IBaseDao.WithTx(tx),
		log:      d.log,
		err:      d.err,
		db:       tx,
	}
}

// QueryWithPage 服务探测历史，按时间倒序
func (d *ServiceLogDao) QueryWithPage(ctx context.Context, serviceID int64, page *mvc.Page) ([]*model.ServiceMonitorLogModel, int64, error) {
	query := d.db.WithContext(ctx).Model(&model.ServiceMonitorLogModel{})
	if serviceID > 0 {
		query = query.Where("service_id = ?", serviceID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, d.err.New("统计服务探测记录失败", err).DB()
	}
	var logs []*model.ServiceMonitorLogModel
	if err := query.Order("monitor_time DESC, id DESC").Scopes(mvc.Paginate(page)).Find(&logs).Error; err != nil {
		return nil, 0, d.err.New("查询服务探测记录失败", err).DB()
	}
	return logs, total, nil
}

func (d *ServiceLogDao) DeleteByColumnIn(ctx context.Context, column string, ids []int64) (int64, error) {
	res := d.db.WithContext(ctx).Where(column+" IN ?", ids).Delete(&model.ServiceMonitorLogModel{})
	if res.Error != nil {
		return 0, d.err.New("删除服务探测记录失败", res.Error).DB()
	}
	return res.RowsAffected, nil
}

func (d *ServiceLogDao) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := d.db.WithContext(ctx).Where("monitor_time < ?", cutoff).Delete(&model.ServiceMonitorLogModel{})
	if res.Error != nil {
		return 0, d.err.New("清理服务探测记录失败", res.Error).DB()
	}
	return res.RowsAffected, nil
}
