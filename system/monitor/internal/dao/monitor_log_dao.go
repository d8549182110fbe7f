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

// LogFilter 日志筛选条件，零值字段不参与过滤
type LogFilter struct {
	ServerID int64
	Status   string
	From     *time.Time
	To       *time.Time
}

type MonitorLogDao struct {
	mvc.IBaseDao[model.MonitorLogModel]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

func NewMonitorLogDao(db *gorm.DB, log *logger.Log) *MonitorLogDao {
	return &MonitorLogDao{
		IBaseDao: mvc.NewGormDao[model.MonitorLogModel](db),
		log:      log.WithEntryName("MonitorLogDao"),
		err:      errorc.NewErrorBuilder("MonitorLogDao"),
		db:       db,
	}
}

func (d *MonitorLogDao) Tx(tx *gorm.DB) *MonitorLogDao {
	return &MonitorLogDao{
		IBaseDao: d.IBaseDao.WithTx(tx),
		log:      d.log,
		err:      d.err,
		db:       tx,
	}
}

// QueryWithPage 按巡检时间倒序分页
func (d *MonitorLogDao) QueryWithPage(ctx context.Context, f LogFilter, page *mvc.Page) ([]*model.MonitorLogModel, int64, error) {
	query := d.db.WithContext(ctx).Model(&model.MonitorLogModel{})
	if f.ServerID > 0 {
		query = query.Where("server_id = ?", f.ServerID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.From != nil {
		query = query.Where("monitor_time >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("monitor_time < ?", *f.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, d.err.New("统计监控日志失败", err).DB()
	}

	var logs []*model.MonitorLogModel
	err := query.Order("monitor_time DESC, id DESC").Scopes(mvc.Paginate(page)).Find(&logs).Error
	if err != nil {
		return nil, 0, d.err.New("查询监控日志失败", err).DB()
	}
	return logs, total, nil
}

// LatestPerServer 每台服务器最新的一条巡检日志
func (d *MonitorLogDao) LatestPerServer(ctx context.Context, serverIDs []int64) ([]*model.MonitorLogModel, error) {
	latest := d.db.Model(&model.MonitorLogModel{}).Select("MAX(id)").Group("server_id")
	if len(serverIDs) > 0 {
		latest = latest.Where("server_id IN ?", serverIDs)
	}

	var logs []*model.MonitorLogModel
	err := d.db.WithContext(ctx).Where("id IN (?)", latest).Order("server_id ASC").Find(&logs).Error
	if err != nil {
		return nil, d.err.New("查询最新巡检状态失败", err).DB()
	}
	return logs, nil
}

// DeleteByServerIDs 删除指定服务器的全部巡检日志
func (d *MonitorLogDao) DeleteByServerIDs(ctx context.Context, serverIDs []int64) (int64, error) {
	res := d.db.WithContext(ctx).Where("server_id IN ?", serverIDs).Delete(&model.MonitorLogModel{})
	if res.Error != nil {
		return 0, d.err.New("删除巡检日志失败", res.Error).DB()
	}
	return res.RowsAffected, nil
}

// DeleteBefore 删除早于 cutoff 的日志
func (d *MonitorLogDao) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := d.db.WithContext(ctx).Where("monitor_time < ?", cutoff).Delete(&model.MonitorLogModel{})
	if res.Error != nil {
		return 0, d.err.New("清理巡检日志失败", res.Error).DB()
	}
	return res.RowsAffected, nil
}
