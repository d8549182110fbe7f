package setting

import (
	"hostpatrol/pkg/core/logger"
	"hostpatrol/system/setting/internal/model"

	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB, log *logger.Log) error {
	if err := db.AutoMigrate(&model.GlobalSettingModel{}); err != nil {
		log.WithErr(err).Error("迁移 patrol_global_settings 表失败")
		return err
	}
	log.Info("迁移 patrol_global_settings 表成功")
	return nil
}
