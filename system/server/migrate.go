package server

import (
	"hostpatrol/pkg/core/logger"
	"hostpatrol/system/server/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate 自动迁移 server 组件的数据库表
func AutoMigrate(db *gorm.DB, log *logger.Log) error {
	log.Info("开始迁移 server 组件表...")

	if err := db.AutoMigrate(&model.ServerModel{}); err != nil {
		log.WithErr(err).Error("迁移 patrol_servers 表失败")
		return err
	}

	if err := db.AutoMigrate(&model.ServiceConfigModel{}); err != nil {
		log.WithErr(err).Error("迁移 patrol_services 表失败")
		return err
	}

	log.Info("server 组件表迁移完成")
	return nil
}
