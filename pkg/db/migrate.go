package db

import (
	"hostpatrol/pkg/core/logger"
	"hostpatrol/system/monitor"
	"hostpatrol/system/notification"
	"hostpatrol/system/report"
	"hostpatrol/system/schedule"
	"hostpatrol/system/server"
	"hostpatrol/system/setting"
	"hostpatrol/system/threshold"

	"gorm.io/gorm"
)

// AutoMigrate 自动执行所有数据库迁移
func AutoMigrate(db *gorm.DB) error {
	log := logger.GetLogger().WithEntryName("DatabaseMigration")

	log.Info("开始执行数据库迁移...")

	steps := []func(*gorm.DB, *logger.Log) error{
		// 服务器与服务配置
		server.AutoMigrate,
		threshold.AutoMigrate,
		setting.AutoMigrate,
		// 巡检日志
		monitor.AutoMigrate,
		report.AutoMigrate,
		notification.AutoMigrate,
		schedule.AutoMigrate,
	}
	for _, step := range steps {
		if err := step(db, log); err != nil {
			return err
		}
	}

	log.Info("所有数据库迁移执行完成")
	return nil
}
