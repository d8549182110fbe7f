package dao

import (
	"context"
	"errors"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/core/mvc"
	"hostpatrol/system/threshold/internal/model"

	"gorm.io/gorm"
)

type ThresholdDao struct {
	mvc.IBaseDao[model.ThresholdModel]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

func NewThresholdDao(db *gorm.DB, log *logger.Log) *ThresholdDao {
	return &ThresholdDao{
		IBaseDao: mvc.NewGormDao[model.ThresholdModel](db),
		log:      log.WithEntryName("ThresholdDao"),
		err:      errorc.NewErrorBuilder("ThresholdDao"),
		db:       db,
	}
}

// First 取最早的一行配置
func (d *ThresholdDao) First(ctx context.Context) (*model.ThresholdModel, error) {
	var m model.ThresholdModel
	err := d.db.WithContext(ctx).Order("id ASC").First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, d.err.New("阈值配置不存在", err).NotFound()
		}
		return nil, d.err.New("查询阈值配置失败", err).DB()
	}
	return &m, nil
}
