package app

import (
	"context"
	"sync"
	"time"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/patrol"
	monitordto "hostpatrol/system/monitor/api/dto"
	"hostpatrol/system/schedule/internal/model"
	"hostpatrol/system/schedule/internal/model/dto"
	"hostpatrol/system/schedule/internal/service"

	"gorm.io/gorm"
)

// Runner 巡检入口
type Runner interface {
	ExecuteAndReport(ctx context.Context, reportType string) (*monitordto.ExecuteResult, error)
	MonitorAllServices(ctx context.Context) (*patrol.Summary, error)
	Cleanup(ctx context.Context, retentionDays int) error
}

// App 计划任务组件应用层
type App struct {
	ScheduleService *service.ScheduleService

	runner Runner
	now    func() time.Time
	// tickMu 保证同一时刻只有一次到期扫描
	tickMu sync.Mutex

	log *logger.Log
	err *errorc.ErrorBuilder
}

func NewApp(db *gorm.DB, runner Runner) *App {
	log := logger.GetLogger().WithEntryName("ScheduleApp")
	return &App{
		ScheduleService: service.NewScheduleService(db, log),
		runner:          runner,
		now:             time.Now,
		log:             log,
		err:             errorc.NewErrorBuilder("ScheduleApp"),
	}
}

func (a *App) ListSchedules(ctx context.Context) ([]*model.ScheduleModel, error) {
	return a.ScheduleService.Dao().ListAll(ctx)
}

func (a *App) GetSchedule(ctx context.Context, id int64) (*model.ScheduleModel, error) {
	m, err := a.ScheduleService.FindById(ctx, id)
	if err != nil {
		if errorc.IsNotFound(err) {
			return nil, a.err.New("任务不存在", err).NotFound()
		}
		return nil, err
	}
	return m, nil
}

func (a *App) CreateSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (*model.ScheduleModel, error) {
	return a.ScheduleService.Create(ctx, req, a.now())
}

func (a *App) UpdateSchedule(ctx context.Context, id int64, req *dto.UpdateScheduleRequest) (*model.ScheduleModel, error) {
	m, err := a.ScheduleService.Update(ctx, id, req, a.now())
	if err != nil {
		if errorc.IsNotFound(err) {
			return nil, a.err.New("任务不存在", err).NotFound()
		}
		return nil, err
	}
	return m, nil
}

func (a *App) DeleteSchedule(ctx context.Context, id int64) error {
	if err := a.ScheduleService.DeleteById(ctx, id); err != nil {
		if errorc.IsNotFound(err) {
			return a.err.New("任务不存在", err).NotFound()
		}
		return err
	}
	a.log.WithField("id", id).Info("计划任务删除成功")
	return nil
}

// Tick 扫描到期任务，逐个触发一次完整巡检。
// 每个到期任务各自独立执行，单个失败不影响其余任务，执行后写入 last_run 并重算 next_run。
func (a *App) Tick(ctx context.Context) (int, error) {
	a.tickMu.Lock()
	defer a.tickMu.Unlock()

	due, err := a.ScheduleService.Dao().Due(ctx, a.now())
	if err != nil {
		return 0, err
	}
	for _, s := range due {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		log := a.log.WithTrace(ctx).WithField("schedule", s.Name).WithField("id", s.ID)
		log.Info("开始执行计划巡检")

		res, err := a.runner.ExecuteAndReport(ctx, patrol.ReportScheduled)
		if err != nil {
			log.WithErr(err).Error("计划巡检执行失败")
		} else {
			log.WithField("servers", res.TotalServers).
				WithField("failed", res.FailedCount).
				WithField("notification", res.NotificationMessage).
				Info("计划巡检执行完成")
		}

		if err := a.ScheduleService.Advance(ctx, s, a.now()); err != nil {
			log.WithErr(err).Error("更新计划任务执行时间失败")
		}
	}
	return len(due), nil
}
