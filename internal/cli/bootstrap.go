package cli

import (
	"fmt"
	"os"
	"time"

	"hostpatrol/base"
	"hostpatrol/pkg/core/config"
	"hostpatrol/pkg/core/start"
	"hostpatrol/pkg/core/system"
	"hostpatrol/pkg/lock"
	"hostpatrol/pkg/scheduler"
)

// loadConfigures 读取配置并初始化日志
func loadConfigures() (*start.Configures, error) {
	filename, err := configPath(envFlag, configFlag)
	if err != nil {
		return nil, err
	}
	file, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	configures := start.NewConfigures(file, envFlag)
	base.Configures = configures
	base.Logger = configures.Logger
	base.ENV = envFlag
	return configures, nil
}

// bootstrap 初始化数据库、Redis、缓存、令牌黑名单与分布式锁
func bootstrap() (*start.Configures, error) {
	configures, err := loadConfigures()
	if err != nil {
		return nil, err
	}

	base.DB = configures.EnableDatabase()
	system.RegisterClose(func() {
		if sqlDB, err := base.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	base.RDB = configures.EnableRedis()
	if base.RDB != nil {
		system.RegisterClose(func() { _ = base.RDB.Close() })
	}
	base.Cache = configures.EnableCache(base.RDB)
	base.Locker = configures.EnableLocker(base.RDB)
	base.AdminAuth = configures.AdminAuth.WithBlacklist(configures.EnableBlacklist(base.RDB))
	return configures, nil
}

// newScheduler 启用 Redis 且配置为分布式时，多实例中只有持锁节点执行分布式任务
func newScheduler(cfg config.SchedulerConfig) *scheduler.Scheduler {
	var lm lock.LockManager
	if cfg.Distributed && base.Locker != nil {
		lm = lock.NewRedisLockManager(base.Locker)
	} else {
		lm = lock.NewLocalLockManager()
	}

	sc := scheduler.DefaultSchedulerConfig()
	if cfg.LockKey != "" {
		sc.LockKey = cfg.LockKey
	}
	if cfg.LockTTLSeconds > 0 {
		sc.LockTTL = time.Duration(cfg.LockTTLSeconds) * time.Second
	}
	if cfg.MaxWorkers > 0 {
		sc.MaxWorkers = cfg.MaxWorkers
	}
	return scheduler.NewScheduler(lm, sc)
}
