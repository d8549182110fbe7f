package threshold

import (
	"hostpatrol/pkg/core/logger"
	"hostpatrol/system/threshold/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate 迁移阈值表
func AutoMigrate(db *gorm.DB, log *logger.Log) error {
	if err := db.AutoMigrate(&model.ThresholdModel{}); err != nil {
		log.WithErr(err).Error("迁移 patrol_thresholds 表失败")
		return err
	}
	log.Info("迁移 patrol_thresholds 表成功")
	return nil
}
