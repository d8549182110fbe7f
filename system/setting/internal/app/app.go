package app

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/system/setting/internal/model"
	"hostpatrol/system/setting/internal/service"

	"gorm.io/gorm"
)

// IntervalListener 服务监控间隔变更后的回调
type IntervalListener func(ctx context.Context, minutes int) error

type App struct {
	SettingService *service.SettingService

	mu        sync.RWMutex
	listeners []IntervalListener

	log *logger.Log
	err *errorc.ErrorBuilder
}

func NewApp(db *gorm.DB) *App {
	log := logger.GetLogger().WithEntryName("SettingApp")
	return &App{
		SettingService: service.NewSettingService(db, log),
		log:            log,
		err:            errorc.NewErrorBuilder("SettingApp"),
	}
}

// OnIntervalChange 注册间隔变更回调
func (a *App) OnIntervalChange(l IntervalListener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, l)
}

// ServiceMonitorInterval 服务监控间隔（分钟），越界值按默认值处理
func (a *App) ServiceMonitorInterval(ctx context.Context) (int, error) {
	n, err := a.SettingService.GetInt(ctx, model.KeyServiceMonitorInterval, model.DefaultServiceMonitorInterval)
	if err != nil {
		return model.DefaultServiceMonitorInterval, err
	}
	if n < model.MinServiceMonitorInterval || n > model.MaxServiceMonitorInterval {
		return model.DefaultServiceMonitorInterval, nil
	}
	return n, nil
}

// SetServiceMonitorInterval 保存后通知监听方，回调失败只记录日志
func (a *App) SetServiceMonitorInterval(ctx context.Context, minutes int) error {
	if minutes < model.MinServiceMonitorInterval || minutes > model.MaxServiceMonitorInterval {
		return a.err.New(fmt.Sprintf("监控间隔必须在%d-%d分钟之间",
			model.MinServiceMonitorInterval, model.MaxServiceMonitorInterval), nil).ValidWithCtx()
	}
	if err := a.SettingService.Set(ctx, model.KeyServiceMonitorInterval, strconv.Itoa(minutes), "服务监控时间间隔（分钟）"); err != nil {
		return err
	}

	a.mu.RLock()
	listeners := append([]IntervalListener(nil), a.listeners...)
	a.mu.RUnlock()
	for _, l := range listeners {
		if err := l(ctx, minutes); err != nil {
			a.log.WithErr(err).WithField("minutes", minutes).Warn("设置已保存，但重启服务监控循环失败")
		}
	}
	a.log.WithField("minutes", minutes).Info("服务监控间隔已更新")
	return nil
}
