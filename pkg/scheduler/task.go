package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

type TaskType int

const (
	TaskTypeOnce TaskType = iota
	TaskTypeInterval
	TaskTypeCron
)

type TaskStatus int

const (
	TaskStatusWaiting TaskStatus = iota
	TaskStatusRunning
	TaskStatusCompleted
	TaskStatusFailed
	TaskStatusCanceled
)

// TaskExecuteMode 分布式模式下只有持有锁的节点执行
type TaskExecuteMode int

const (
	TaskExecuteModeDistributed TaskExecuteMode = iota
	TaskExecuteModeLocal
)

// defaultTaskTimeout 未设置超时时使用
const defaultTaskTimeout = 30 * time.Second

// cronParser 六段式，首段为秒
var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type TaskFunc func(ctx context.Context) error

// Task 调度器管理的任务
type Task interface {
	GetID() string
	GetName() string
	GetType() TaskType
	GetExecuteMode() TaskExecuteMode
	GetNextTime() time.Time
	GetTimeout() time.Duration
	Execute(ctx context.Context) error
	// UpdateNextTime 根据本次执行时间推算下一次，返回新的时间
	UpdateNextTime(now time.Time) time.Time
	CanExecute(now time.Time) bool
	IsCompleted() bool
	SetStatus(status TaskStatus)
}

// BaseTask 三种任务共用的字段与状态流转
type BaseTask struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        TaskType        `json:"type"`
	ExecuteMode TaskExecuteMode `json:"execute_mode"`
	Status      TaskStatus      `json:"status"`
	NextTime    time.Time       `json:"next_time"`
	Timeout     time.Duration   `json:"timeout"`
	Func        TaskFunc        `json:"-"`
}

func newBaseTask(name string, typ TaskType, mode TaskExecuteMode, next time.Time, timeout time.Duration, fn TaskFunc) *BaseTask {
	return &BaseTask{
		ID:          uuid.NewString(),
		Name:        name,
		Type:        typ,
		ExecuteMode: mode,
		Status:      TaskStatusWaiting,
		NextTime:    next,
		Timeout:     timeout,
		Func:        fn,
	}
}

func (t *BaseTask) GetID() string                   { return t.ID }
func (t *BaseTask) GetName() string                 { return t.Name }
func (t *BaseTask) GetType() TaskType               { return t.Type }
func (t *BaseTask) GetExecuteMode() TaskExecuteMode { return t.ExecuteMode }
func (t *BaseTask) GetNextTime() time.Time          { return t.NextTime }
func (t *BaseTask) SetStatus(status TaskStatus)     { t.Status = status }

func (t *BaseTask) GetTimeout() time.Duration {
	if t.Timeout <= 0 {
		return defaultTaskTimeout
	}
	return t.Timeout
}

// Execute 一次性任务成功后置为完成，周期任务回到等待
func (t *BaseTask) Execute(ctx context.Context) error {
	if t.Func == nil {
		return nil
	}
	t.Status = TaskStatusRunning
	if err := t.Func(ctx); err != nil {
		t.Status = TaskStatusFailed
		return err
	}
	if t.Type == TaskTypeOnce {
		t.Status = TaskStatusCompleted
	} else {
		t.Status = TaskStatusWaiting
	}
	return nil
}

func (t *BaseTask) CanExecute(now time.Time) bool {
	return t.Status == TaskStatusWaiting && !now.Before(t.NextTime)
}

func (t *BaseTask) IsCompleted() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusCanceled
}

// OnceTask 只在 at 时刻执行一次
type OnceTask struct {
	*BaseTask
}

func NewOnceTask(name string, at time.Time, mode TaskExecuteMode, timeout time.Duration, fn TaskFunc) *OnceTask {
	return &OnceTask{BaseTask: newBaseTask(name, TaskTypeOnce, mode, at, timeout, fn)}
}

func (t *OnceTask) UpdateNextTime(time.Time) time.Time {
	return t.NextTime
}

// IntervalTask 从 start 开始每隔 Interval 执行
type IntervalTask struct {
	*BaseTask
	Interval time.Duration `json:"interval"`
}

func NewIntervalTask(name string, start time.Time, interval time.Duration, mode TaskExecuteMode, timeout time.Duration, fn TaskFunc) *IntervalTask {
	return &IntervalTask{
		BaseTask: newBaseTask(name, TaskTypeInterval, mode, start, timeout, fn),
		Interval: interval,
	}
}

func (t *IntervalTask) UpdateNextTime(now time.Time) time.Time {
	t.NextTime = now.Add(t.Interval)
	return t.NextTime
}

// CronTask 按六段式 cron 表达式执行，例如 "0 30 3 * * *"
type CronTask struct {
	*BaseTask
	CronExpr string `json:"cron_expr"`
	schedule cron.Schedule
}

func NewCronTask(name, expr string, mode TaskExecuteMode, timeout time.Duration, fn TaskFunc) (*CronTask, error) {
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, err
	}
	return &CronTask{
		BaseTask: newBaseTask(name, TaskTypeCron, mode, schedule.Next(time.Now()), timeout, fn),
		CronExpr: expr,
		schedule: schedule,
	}, nil
}

func (t *CronTask) UpdateNextTime(now time.Time) time.Time {
	t.NextTime = t.schedule.Next(now)
	return t.NextTime
}
