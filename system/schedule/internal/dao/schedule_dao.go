package dao

import (
	"context"
	"time"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/core/mvc"
	"hostpatrol/system/schedule/internal/model"

	"gorm.io/gorm"
)

// ScheduleDao 计划任务数据访问层
type ScheduleDao struct {
	mvc.IBaseDao[model.ScheduleModel]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

func NewScheduleDao(db *gorm.DB, log *logger.Log) *ScheduleDao {
	return &ScheduleDao{
		IBaseDao: mvc.NewGormDao[model.ScheduleModel](db),
		log:      log.WithEntryName("ScheduleDao"),
		err:      errorc.NewErrorBuilder("ScheduleDao"),
		db:       db,
	}
}

// ListAll 全部任务，新建的在前
func (d *ScheduleDao) ListAll(ctx context.Context) ([]*model.ScheduleModel, error) {
	var schedules []*model.ScheduleModel
	if err := d.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&schedules).Error; err != nil {
		return nil, d.err.New("查询计划任务失败", err).DB()
	}
	return schedules, nil
}

// Due 已启用且到期的任务，按到期时间先后
func (d *ScheduleDao) Due(ctx context.Context, now time.Time) ([]*model.ScheduleModel, error) {
	var schedules []*model.ScheduleModel
	err := d.db.WithContext(ctx).
		Where("is_active = ? AND next_run IS NOT NULL AND next_run <= ?", true, now).
		Order("next_run ASC, id ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, d.err.New("查询到期计划任务失败", err).DB()
	}
	return schedules, nil
}

// MarkRun 记录执行时间并写入下次执行时间
func (d *ScheduleDao) MarkRun(ctx context.Context, id int64, lastRun time.Time, nextRun *time.Time) error {
	err := d.db.WithContext(ctx).Model(&model.ScheduleModel{}).Where("id = ?", id).
		Updates(map[string]interface{}{"last_run": lastRun, "next_run": nextRun}).Error
	if err != nil {
		return d.err.New("更新计划任务执行时间失败", err).DB()
	}
	return nil
}
