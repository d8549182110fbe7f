package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/lock"
)

var (
	ErrSchedulerRunning = errors.New("调度器已经在运行")
	ErrSchedulerStopped = errors.New("调度器未运行")
)

// SchedulerConfig 调度器配置
type SchedulerConfig struct {
	NodeID        string        `json:"node_id"`
	LockKey       string        `json:"lock_key"`
	LockTTL       time.Duration `json:"lock_ttl"`
	CheckInterval time.Duration `json:"check_interval"`
	MaxWorkers    int           `json:"max_workers"`
}

func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		NodeID:        fmt.Sprintf("hostpatrol-%d", time.Now().UnixNano()),
		LockKey:       "hostpatrol:scheduler:leader",
		LockTTL:       30 * time.Second,
		CheckInterval: time.Second,
		MaxWorkers:    10,
	}
}

func (c *SchedulerConfig) normalize() {
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = 10
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = time.Second
	}
	if c.LockTTL <= 0 {
		c.LockTTL = 30 * time.Second
	}
}

// SchedulerStats 统计快照
type SchedulerStats struct {
	TotalTasks       int64     `json:"total_tasks"`
	CompletedTasks   int64     `json:"completed_tasks"`
	FailedTasks      int64     `json:"failed_tasks"`
	DistributedTasks int64     `json:"distributed_tasks"`
	LocalTasks       int64     `json:"local_tasks"`
	LeaderElections  int64     `json:"leader_elections"`
	LastExecuteTime  time.Time `json:"last_execute_time"`
}

type counters struct {
	total, completed, failed atomic.Int64
	distributed, local       atomic.Int64
	elections                atomic.Int64
	lastExecute              atomic.Int64
}

// Scheduler 最小堆加单个定时器驱动的任务调度器。
// 分布式任务只在持有领导锁的节点执行，本地任务每个节点都执行。
type Scheduler struct {
	cfg    SchedulerConfig
	leader lock.DistributedLock
	heap   *TaskHeap
	log    *logger.Log
	stats  counters

	running  atomic.Bool
	isLeader atomic.Bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	workers  chan struct{}

	// 执行中被移除的任务，执行结束后不再入堆
	removedMu sync.Mutex
	removed   map[string]struct{}

	timerMu sync.Mutex
	timer   *time.Timer
}

// NewScheduler lockManager 为 nil 时使用进程内锁
func NewScheduler(lockManager lock.LockManager, config *SchedulerConfig) *Scheduler {
	if config == nil {
		config = DefaultSchedulerConfig()
	}
	cfg := *config
	cfg.normalize()
	if lockManager == nil {
		lockManager = lock.NewLocalLockManager()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cfg:     cfg,
		leader:  lockManager.NewLock(cfg.LockKey, &lock.LockOptions{TTL: cfg.LockTTL}),
		heap:    NewTaskHeap(),
		log:     logger.GetLogger().WithEntryName("Scheduler"),
		ctx:     ctx,
		cancel:  cancel,
		workers: make(chan struct{}, cfg.MaxWorkers),
		removed: make(map[string]struct{}),
	}
}

func (s *Scheduler) Start() error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrSchedulerRunning
	}
	s.log.Infof("调度器启动，节点: %s", s.cfg.NodeID)

	// 先竞选一次，首个检查周期内的分布式任务才不会被跳过
	s.elect()

	s.wg.Add(1)
	go s.electLoop()

	s.resetTimer()
	return nil
}

func (s *Scheduler) Stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	s.cancel()
	if s.leader.IsLocked() {
		if err := s.leader.Unlock(context.Background()); err != nil {
			s.log.Errorf("释放领导锁失败: %v", err)
		}
	}
	s.stopTimer()
	s.wg.Wait()
	s.log.Info("调度器已停止")
	return nil
}

func (s *Scheduler) AddTask(task Task) error {
	if !s.running.Load() {
		return ErrSchedulerStopped
	}
	s.heap.SafePush(task)
	s.stats.total.Add(1)
	s.log.Infof("添加任务: %s [%s]", task.GetName(), task.GetID())
	s.resetTimer()
	return nil
}

// RemoveTask 任务正在执行时返回 false，并在本次执行结束后丢弃
func (s *Scheduler) RemoveTask(taskID string) bool {
	s.removedMu.Lock()
	defer s.removedMu.Unlock()

	if s.heap.SafeRemove(taskID) {
		s.log.Infof("移除任务: %s", taskID)
		s.resetTimer()
		return true
	}
	s.removed[taskID] = struct{}{}
	return false
}

func (s *Scheduler) ListTasks() []Task {
	return s.heap.SafeList()
}

func (s *Scheduler) IsLeader() bool {
	return s.isLeader.Load()
}

func (s *Scheduler) GetStats() *SchedulerStats {
	st := &SchedulerStats{
		TotalTasks:       s.stats.total.Load(),
		CompletedTasks:   s.stats.completed.Load(),
		FailedTasks:      s.stats.failed.Load(),
		DistributedTasks: s.stats.distributed.Load(),
		LocalTasks:       s.stats.local.Load(),
		LeaderElections:  s.stats.elections.Load(),
	}
	if ns := s.stats.lastExecute.Load(); ns > 0 {
		st.LastExecuteTime = time.Unix(0, ns)
	}
	return st
}

func (s *Scheduler) electLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.CheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.elect()
		}
	}
}

// elect 获取或续期领导锁
func (s *Scheduler) elect() {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	ok, err := s.leader.TryLock(ctx)
	if err != nil {
		s.log.Errorf("获取领导锁失败: %v", err)
	}
	if ok && err == nil {
		if s.isLeader.CompareAndSwap(false, true) {
			s.log.Info("成为领导节点")
			s.stats.elections.Add(1)
			s.resetTimer()
		}
		return
	}
	if s.isLeader.CompareAndSwap(true, false) {
		s.log.Info("失去领导身份")
	}
}

func (s *Scheduler) resetTimer() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	next := s.heap.GetNextExecuteTime()
	if next == nil {
		return
	}
	wait := time.Until(*next)
	if wait < 0 {
		wait = 0
	}
	s.timer = time.AfterFunc(wait, s.fire)
}

func (s *Scheduler) stopTimer() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) fire() {
	if !s.running.Load() {
		return
	}
	ready := s.heap.PopReadyTasks(time.Now())
	if len(ready) == 0 {
		s.resetTimer()
		return
	}
	for _, task := range ready {
		s.dispatch(task)
	}
}

// dispatch 非领导节点上的分布式任务与工作池满时的任务都顺延到下一周期
func (s *Scheduler) dispatch(task Task) {
	if task.GetExecuteMode() == TaskExecuteModeDistributed {
		if !s.isLeader.Load() {
			s.requeue(task, time.Now())
			return
		}
		s.stats.distributed.Add(1)
	} else {
		s.stats.local.Add(1)
	}

	select {
	case s.workers <- struct{}{}:
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() { <-s.workers }()
			s.run(task)
		}()
	default:
		s.log.Warnf("工作池已满，任务顺延: %s", task.GetName())
		s.requeue(task, time.Now().Add(time.Second))
	}
}

func (s *Scheduler) run(task Task) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(s.ctx, task.GetTimeout())
	defer cancel()

	err := s.execute(ctx, task)
	s.stats.lastExecute.Store(start.UnixNano())
	cost := time.Since(start)
	if err != nil {
		s.stats.failed.Add(1)
		s.log.Errorf("任务失败: %s [%s], 耗时 %v: %v", task.GetName(), task.GetID(), cost, err)
	} else {
		s.stats.completed.Add(1)
		s.log.Infof("任务完成: %s [%s], 耗时 %v", task.GetName(), task.GetID(), cost)
	}

	// 一次性任务无论成败都不再调度
	if task.GetType() != TaskTypeOnce {
		s.requeue(task, time.Now())
	}
	s.resetTimer()
}

// execute 任务 panic 时转换为错误
func (s *Scheduler) execute(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("任务 panic: %v", r)
			task.SetStatus(TaskStatusFailed)
		}
	}()
	return task.Execute(ctx)
}

// requeue 从 from 推算下次时间后重新入堆，已完成或已移除的任务丢弃
func (s *Scheduler) requeue(task Task, from time.Time) {
	s.removedMu.Lock()
	defer s.removedMu.Unlock()

	if _, ok := s.removed[task.GetID()]; ok {
		delete(s.removed, task.GetID())
		s.log.Infof("移除任务: %s", task.GetID())
		return
	}
	if task.IsCompleted() {
		return
	}
	if next := task.UpdateNextTime(from); next.IsZero() {
		return
	}
	task.SetStatus(TaskStatusWaiting)
	s.heap.SafePush(task)
	s.resetTimer()
}
