package app

import (
	"context"
	"sync"
	"time"

	"hostpatrol/pkg/collector"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/evaluator"
	"hostpatrol/pkg/patrol"
	serverdto "hostpatrol/system/server/api/dto"
	"hostpatrol/system/monitor/internal/service"

	"github.com/go-redis/cache/v9"
	"gorm.io/gorm"
)

// ServerSource 巡检目标与服务状态回写
type ServerSource interface {
	ActiveTargets(ctx context.Context) ([]*serverdto.ServerTarget, error)
	ServerTarget(ctx context.Context, serverID int64) (*serverdto.ServerTarget, error)
	ServiceTarget(ctx context.Context, serviceID int64) (*serverdto.ServerTarget, error)
	ApplyServiceStatuses(ctx context.Context, updates []serverdto.ServiceStatusUpdate) error
	ServerBriefs(ctx context.Context, ids []int64) (map[int64]serverdto.ServerBrief, error)
	ServicesOverview(ctx context.Context) (*serverdto.ServicesOverview, error)
	CountActive(ctx context.Context) (int64, error)
}

// ThresholdSource 提供巡检开始时的阈值快照
type ThresholdSource interface {
	Snapshot(ctx context.Context) (evaluator.Thresholds, error)
}

// HostCollector 对单台主机执行一次采集
type HostCollector interface {
	Collect(ctx context.Context, host collector.Host, probes []collector.ProcessProbe, opts collector.CollectOptions) (*collector.Report, error)
}

// Reporter 把巡检汇总生成报告产物并登记
type Reporter interface {
	Generate(ctx context.Context, summary *patrol.Summary, reportType string) (*patrol.ReportRef, error)
	AttachURL(ctx context.Context, id int64, url string) error
}

// Notifier 向已启用的通知通道分发内容
type Notifier interface {
	Notify(ctx context.Context, summary *patrol.Summary, report *patrol.ReportRef) (*patrol.Dispatch, error)
	SendText(ctx context.Context, content string) (*patrol.Dispatch, error)
}

// Options 巡检并发与超时参数
type Options struct {
	Workers     int
	HostTimeout time.Duration
	RunTimeout  time.Duration
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 5
	}
	if o.HostTimeout <= 0 {
		o.HostTimeout = 2 * time.Minute
	}
	if o.RunTimeout <= 0 {
		o.RunTimeout = 10 * time.Minute
	}
	return o
}

// App 巡检组件应用层
type App struct {
	LogService *service.MonitorLogService

	servers    ServerSource
	thresholds ThresholdSource
	collector  HostCollector
	opts       Options
	cache      *cache.Cache
	now        func() time.Time

	pipeMu   sync.RWMutex
	reporter Reporter
	notifier Notifier

	log *logger.Log
	err *errorc.ErrorBuilder
}

func NewApp(db *gorm.DB, servers ServerSource, thresholds ThresholdSource, hc HostCollector, c *cache.Cache, opts Options) *App {
	log := logger.GetLogger().WithEntryName("MonitorApp")
	return &App{
		LogService: service.NewMonitorLogService(db, log),
		servers:    servers,
		thresholds: thresholds,
		collector:  hc,
		opts:       opts.withDefaults(),
		cache:      c,
		now:        time.Now,
		log:        log,
		err:        errorc.NewErrorBuilder("MonitorApp"),
	}
}

// SetPipeline 注入报告与通知，二者在巡检组件之后创建
func (a *App) SetPipeline(r Reporter, n Notifier) {
	a.pipeMu.Lock()
	defer a.pipeMu.Unlock()
	a.reporter = r
	a.notifier = n
}

func (a *App) pipeline() (Reporter, Notifier) {
	a.pipeMu.RLock()
	defer a.pipeMu.RUnlock()
	return a.reporter, a.notifier
}
