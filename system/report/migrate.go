package report

import (
	"hostpatrol/pkg/core/logger"
	"hostpatrol/system/report/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate 自动迁移 report 组件的数据库表
func AutoMigrate(db *gorm.DB, log *logger.Log) error {
	log.Info("开始迁移 report 组件表...")

	if err := db.AutoMigrate(&model.ReportModel{}); err != nil {
		log.WithErr(err).Error("迁移 patrol_reports 表失败")
		return err
	}

	log.Info("report 组件表迁移完成")
	return nil
}
