package notification

import (
	"hostpatrol/pkg/core/logger"
	"hostpatrol/system/notification/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate 自动迁移 notification 组件的数据库表
func AutoMigrate(db *gorm.DB, log *logger.Log) error {
	log.Info("开始迁移 notification 组件表...")

	if err := db.AutoMigrate(&model.NotificationChannelModel{}); err != nil {
		log.WithErr(err).Error("迁移 patrol_notification_channels 表失败")
		return err
	}

	log.Info("notification 组件表迁移完成")
	return nil
}
