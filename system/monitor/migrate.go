package monitor

import (
	"hostpatrol/pkg/core/logger"
	"hostpatrol/system/monitor/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate 自动迁移 monitor 组件的数据库表
func AutoMigrate(db *gorm.DB, log *logger.Log) error {
	log.Info("开始迁移 monitor 组件表...")

	if err := db.AutoMigrate(&model.MonitorLogModel{}, &model.ServiceMonitorLogModel{}); err != nil {
		log.WithErr(err).Error("迁移巡检日志表失败")
		return err
	}

	log.Info("monitor 组件表迁移完成")
	return nil
}
