package app

import (
	"context"
	"sync"
	"time"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/core/util"
	"hostpatrol/pkg/sshx"
	"hostpatrol/system/server/internal/service"

	"gorm.io/gorm"
)

// ConnectionTester 对连接参数做一次连通性测试
type ConnectionTester interface {
	TestConnection(ctx context.Context, target sshx.Target) (time.Duration, error)
}

// DeleteHook 删除服务器或服务时在同一事务内清理关联数据
type DeleteHook func(ctx context.Context, tx *gorm.DB, ids []int64) error

const (
	defaultTestTimeout = 30 * time.Second
	defaultTestWorkers = 5
)

// App 服务器组件应用层
type App struct {
	ServerService    *service.ServerService
	ServiceConfigSvc *service.ServiceConfigService

	db          *gorm.DB
	tester      ConnectionTester
	testTimeout time.Duration
	testWorkers int

	hookMu       sync.RWMutex
	serverHooks  []DeleteHook
	serviceHooks []DeleteHook

	log        *logger.Log
	errBuilder *errorc.ErrorBuilder
}

// NewApp 创建服务器组件应用层实例
func NewApp(db *gorm.DB, box *util.SecretBox, tester ConnectionTester) *App {
	log := logger.GetLogger().WithEntryName("ServerApp")

	return &App{
		ServerService:    service.NewServerService(db, box, log),
		ServiceConfigSvc: service.NewServiceConfigService(db, log),
		db:               db,
		tester:           tester,
		testTimeout:      defaultTestTimeout,
		testWorkers:      defaultTestWorkers,
		log:              log,
		errBuilder:       errorc.NewErrorBuilder("ServerApp"),
	}
}

// OnServerDelete 注册服务器删除时的级联清理，ids 为服务器 ID
func (a *App) OnServerDelete(hook DeleteHook) {
	a.hookMu.Lock()
	defer a.hookMu.Unlock()
	a.serverHooks = append(a.serverHooks, hook)
}

// OnServiceDelete 注册服务删除时的级联清理，ids 为服务 ID
func (a *App) OnServiceDelete(hook DeleteHook) {
	a.hookMu.Lock()
	defer a.hookMu.Unlock()
	a.serviceHooks = append(a.serviceHooks, hook)
}

func (a *App) runHooks(ctx context.Context, tx *gorm.DB, hooks []DeleteHook, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	for _, hook := range hooks {
		if err := hook(ctx, tx, ids); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) hooks() (server, svc []DeleteHook) {
	a.hookMu.RLock()
	defer a.hookMu.RUnlock()
	return append([]DeleteHook(nil), a.serverHooks...), append([]DeleteHook(nil), a.serviceHooks...)
}
