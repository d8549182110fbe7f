package app

import (
	"context"
	"time"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/evaluator"
	"hostpatrol/system/threshold/internal/model"
	"hostpatrol/system/threshold/internal/service"

	"github.com/go-redis/cache/v9"
	"gorm.io/gorm"
)

const (
	cacheKey = "patrol:thresholds"
	cacheTTL = 10 * time.Minute
)

// App 阈值组件应用层。每次巡检开始时读取一份值拷贝作为快照，
// 运行中的修改只影响之后的巡检。多实例部署时经 Redis 共享，不使用进程内缓存。
type App struct {
	ThresholdService *service.ThresholdService

	cache *cache.Cache
	log     *logger.Log
	err     *errorc.ErrorBuilder
}

// NewApp c 为空时只使用进程内快照
func NewApp(db *gorm.DB, c *cache.Cache) *App {
	log := logger.GetLogger().WithEntryName("ThresholdApp")
	return &App{
		ThresholdService: service.NewThresholdService(db, log),
		cache:            c,
		log:              log,
		err:              errorc.NewErrorBuilder("ThresholdApp"),
	}
}

func (a *App) load(ctx context.Context) (evaluator.Thresholds, error) {
	if a.cache == nil {
		m, err := a.ThresholdService.Get(ctx)
		if err != nil {
			return evaluator.Thresholds{}, err
		}
		return m.Thresholds(), nil
	}

	var t evaluator.Thresholds
	err := a.cache.Once(&cache.Item{
		Ctx:            ctx,
		Key:            cacheKey,
		Value:          &t,
		TTL:            cacheTTL,
		SkipLocalCache: true,
		Do: func(*cache.Item) (interface{}, error) {
			m, err := a.ThresholdService.Get(ctx)
			if err != nil {
				return nil, err
			}
			return m.Thresholds(), nil
		},
	})
	if err != nil {
		return evaluator.Thresholds{}, err
	}
	return t, nil
}

// Snapshot 当前阈值的副本，其他实例的修改写入 Redis 后立即可见
func (a *App) Snapshot(ctx context.Context) (evaluator.Thresholds, error) {
	return a.load(ctx)
}

// Update 写库成功后刷新共享缓存
func (a *App) Update(ctx context.Context, t evaluator.Thresholds) (*model.ThresholdModel, error) {
	m, err := a.ThresholdService.Save(ctx, t)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		item := &cache.Item{Ctx: ctx, Key: cacheKey, Value: m.Thresholds(), TTL: cacheTTL, SkipLocalCache: true}
		if err := a.cache.Set(item); err != nil {
			a.log.WithErr(err).Warn("刷新阈值缓存失败")
		}
	}
	return m, nil
}

// Get 读取持久化的阈值行
func (a *App) Get(ctx context.Context) (*model.ThresholdModel, error) {
	return a.ThresholdService.Get(ctx)
}
