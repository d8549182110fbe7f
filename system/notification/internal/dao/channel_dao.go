package dao

import (
	"context"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/core/mvc"
	"hostpatrol/system/notification/internal/model"

	"gorm.io/gorm"
)

// ChannelDao 通知通道数据访问层
type ChannelDao struct {
	mvc.IBaseDao[model.NotificationChannelModel]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

func NewChannelDao(db *gorm.DB, log *logger.Log) *ChannelDao {
	return &ChannelDao{
		IBaseDao: mvc.NewGormDao[model.NotificationChannelModel](db),
		log:      log.WithEntryName("ChannelDao"),
		err:      errorc.NewErrorBuilder("ChannelDao"),
		db:       db,
	}
}

// ListAll 全部通道，新建的在前
func (d *ChannelDao) ListAll(ctx context.Context) ([]*model.NotificationChannelModel, error) {
	var channels []*model.NotificationChannelModel
	if err := d.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&channels).Error; err != nil {
		return nil, d.err.New("查询通知通道失败", err).DB()
	}
	return channels, nil
}

// ListEnabled 已启用的通道
func (d *ChannelDao) ListEnabled(ctx context.Context) ([]*model.NotificationChannelModel, error) {
	var channels []*model.NotificationChannelModel
	if err := d.db.WithContext(ctx).Where("is_enabled = ?", true).Order("id ASC").Find(&channels).Error; err != nil {
		return nil, d.err.New("查询启用的通知通道失败", err).DB()
	}
	return channels, nil
}
