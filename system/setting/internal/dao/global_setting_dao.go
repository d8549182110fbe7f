package dao

import (
	"context"
	"errors"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/core/mvc"
	"hostpatrol/system/setting/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GlobalSettingDao struct {
	mvc.IBaseDao[model.GlobalSettingModel]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

func NewGlobalSettingDao(db *gorm.DB, log *logger.Log) *GlobalSettingDao {
	return &GlobalSettingDao{
		IBaseDao: mvc.NewGormDao[model.GlobalSettingModel](db),
		log:      log.WithEntryName("GlobalSettingDao"),
		err:      errorc.NewErrorBuilder("GlobalSettingDao"),
		db:       db,
	}
}

func (d *GlobalSettingDao) FindByKey(ctx context.Context, key string) (*model.GlobalSettingModel, error) {
	var m model.GlobalSettingModel
	err := d.db.WithContext(ctx).Where("setting_key = ?", key).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, d.err.New("设置项不存在", err).NotFound()
		}
		return nil, d.err.New("查询设置项失败", err).DB()
	}
	return &m, nil
}

// Upsert 按键写入，已存在时覆盖值与描述
func (d *GlobalSettingDao) Upsert(ctx context.Context, m *model.GlobalSettingModel) error {
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "description", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return d.err.New("保存设置项失败", err).DB()
	}
	return nil
}
