package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"hostpatrol/pkg/core/util"
	"hostpatrol/pkg/scheduler"
	"hostpatrol/system/schedule/internal/model/dto"
)

// Options 后台任务参数
type Options struct {
	Tick          time.Duration
	RunTimeout    time.Duration
	CleanupCron   string
	RetentionDays int
}

// IntervalSource 服务监控间隔（分钟）及其变更通知
type IntervalSource interface {
	ServiceMonitorInterval(ctx context.Context) (int, error)
	OnIntervalChange(fn func(ctx context.Context, minutes int) error)
}

// Tasks 注册在调度器上的后台任务：计划巡检扫描、服务监控循环、日志清理
type Tasks struct {
	app       *App
	scheduler *scheduler.Scheduler
	opts      Options

	mu          sync.Mutex
	serviceLoop string
	minutes     int
	intervals   IntervalSource
}

func NewTasks(app *App, s *scheduler.Scheduler, opts Options) *Tasks {
	if opts.Tick <= 0 {
		opts.Tick = 30 * time.Second
	}
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = 10 * time.Minute
	}
	if opts.CleanupCron == "" {
		opts.CleanupCron = "0 30 3 * * *"
	}
	if opts.RetentionDays <= 0 {
		opts.RetentionDays = 30
	}
	return &Tasks{app: app, scheduler: s, opts: opts}
}

// Start 注册全部后台任务，服务监控间隔来自全局设置并随设置变更重启
func (t *Tasks) Start(ctx context.Context, intervals IntervalSource) error {
	tick := scheduler.NewIntervalTask(
		"计划巡检扫描",
		time.Now().Add(t.opts.Tick),
		t.opts.Tick,
		scheduler.TaskExecuteModeDistributed,
		t.opts.RunTimeout*2,
		func(ctx context.Context) error {
			_, err := t.app.Tick(util.NewTraceContext(ctx))
			return err
		},
	)
	if err := t.scheduler.AddTask(tick); err != nil {
		return err
	}

	cleanup, err := scheduler.NewCronTask(
		"巡检日志清理",
		t.opts.CleanupCron,
		scheduler.TaskExecuteModeDistributed,
		10*time.Minute,
		func(ctx context.Context) error {
			return t.app.runner.Cleanup(util.NewTraceContext(ctx), t.opts.RetentionDays)
		},
	)
	if err != nil {
		return t.app.err.New("日志清理任务的Cron表达式无效", err).Config()
	}
	if err := t.scheduler.AddTask(cleanup); err != nil {
		return err
	}

	if intervals == nil {
		return nil
	}
	t.mu.Lock()
	t.intervals = intervals
	t.mu.Unlock()
	minutes, err := intervals.ServiceMonitorInterval(ctx)
	if err != nil {
		return err
	}
	intervals.OnIntervalChange(func(_ context.Context, minutes int) error {
		return t.RestartServiceLoop(minutes)
	})
	return t.RestartServiceLoop(minutes)
}

// RestartServiceLoop 以新的间隔重建服务监控循环
func (t *Tasks) RestartServiceLoop(minutes int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startLoopLocked(minutes)
}

func (t *Tasks) startLoopLocked(minutes int) error {
	if minutes <= 0 {
		minutes = 5
	}
	t.stopLoopLocked()

	interval := time.Duration(minutes) * time.Minute
	task := scheduler.NewIntervalTask(
		"服务监控",
		time.Now().Add(interval),
		interval,
		scheduler.TaskExecuteModeDistributed,
		t.opts.RunTimeout,
		func(ctx context.Context) error {
			_, err := t.app.runner.MonitorAllServices(util.NewTraceContext(ctx))
			return err
		},
	)
	if err := t.scheduler.AddTask(task); err != nil {
		return err
	}
	t.serviceLoop = task.GetID()
	t.minutes = minutes
	t.app.log.WithField("minutes", minutes).Info("服务监控循环已启动")
	return nil
}

func (t *Tasks) stopLoopLocked() bool {
	if t.serviceLoop == "" {
		return false
	}
	t.scheduler.RemoveTask(t.serviceLoop)
	t.serviceLoop = ""
	return true
}

// StartServiceLoop 循环已在运行时返回 false，否则按当前设置的间隔启动
func (t *Tasks) StartServiceLoop(ctx context.Context) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.serviceLoop != "" {
		return false, nil
	}
	minutes := t.minutes
	if t.intervals != nil {
		m, err := t.intervals.ServiceMonitorInterval(ctx)
		if err != nil {
			return false, err
		}
		minutes = m
	}
	if err := t.startLoopLocked(minutes); err != nil {
		return false, err
	}
	return true, nil
}

// StopServiceLoop 只影响本节点，循环未运行时返回 false。
// 之后修改服务监控间隔会重新启动循环。
func (t *Tasks) StopServiceLoop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	stopped := t.stopLoopLocked()
	if stopped {
		t.app.log.Info("服务监控循环已停止")
	}
	return stopped
}

// ServiceLoopStatus 服务监控循环状态
func (t *Tasks) ServiceLoopStatus() *dto.ServiceLoopStatus {
	t.mu.Lock()
	id, minutes := t.serviceLoop, t.minutes
	t.mu.Unlock()

	status := &dto.ServiceLoopStatus{
		IsRunning:       id != "",
		IntervalMinutes: minutes,
		Leader:          t.scheduler.IsLeader(),
	}
	if id == "" {
		return status
	}
	for _, task := range t.scheduler.ListTasks() {
		if task.GetID() == id {
			next := task.GetNextTime()
			status.NextTime = &next
			break
		}
	}
	return status
}

// Runtime 本节点调度器上的任务与执行统计
func (t *Tasks) Runtime() *dto.RuntimeView {
	tasks := t.scheduler.ListTasks()
	view := &dto.RuntimeView{
		Leader: t.scheduler.IsLeader(),
		Stats:  t.scheduler.GetStats(),
		Tasks:  make([]dto.RuntimeTask, 0, len(tasks)),
	}
	for _, task := range tasks {
		view.Tasks = append(view.Tasks, dto.RuntimeTask{
			ID:          task.GetID(),
			Name:        task.GetName(),
			Distributed: task.GetExecuteMode() == scheduler.TaskExecuteModeDistributed,
			NextTime:    task.GetNextTime(),
		})
	}
	sort.Slice(view.Tasks, func(i, j int) bool {
		return view.Tasks[i].NextTime.Before(view.Tasks[j].NextTime)
	})
	return view
}
