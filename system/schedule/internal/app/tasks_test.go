package app

import (
	"context"
	"testing"
	"time"

	"hostpatrol/pkg/lock"
	"hostpatrol/pkg/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIntervals struct {
	minutes  int
	onChange func(ctx context.Context, minutes int) error
}

func (f *fakeIntervals) ServiceMonitorInterval(context.Context) (int, error) {
	return f.minutes, nil
}

func (f *fakeIntervals) OnIntervalChange(fn func(ctx context.Context, minutes int) error) {
	f.onChange = fn
}

func newStartedScheduler(t *testing.T) *scheduler.Scheduler {
	t.Helper()
	s := scheduler.NewScheduler(lock.NewLocalLockManager(), scheduler.DefaultSchedulerConfig())
	require.NoError(t, s.Start())
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func taskNames(tasks *Tasks) map[string]time.Time {
	names := map[string]time.Time{}
	for _, task := range tasks.Runtime().Tasks {
		names[task.Name] = task.NextTime
	}
	return names
}

func TestTasksStart_RegistersBackgroundTasks(t *testing.T) {
	a, _ := newTestApp(t, &fakeRunner{})
	s := newStartedScheduler(t)
	tasks := NewTasks(a, s, Options{Tick: time.Hour})

	intervals := &fakeIntervals{minutes: 10}
	require.NoError(t, tasks.Start(context.Background(), intervals))

	view := tasks.Runtime()
	require.Len(t, view.Tasks, 3)
	for _, task := range view.Tasks {
		assert.True(t, task.Distributed, task.Name)
	}
	names := taskNames(tasks)
	assert.Contains(t, names, "计划巡检扫描")
	assert.Contains(t, names, "巡检日志清理")
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), names["服务监控"], 5*time.Second)
	require.NotNil(t, intervals.onChange)
}

func TestTasks_IntervalChangeReplacesServiceLoop(t *testing.T) {
	a, _ := newTestApp(t, &fakeRunner{})
	s := newStartedScheduler(t)
	tasks := NewTasks(a, s, Options{Tick: time.Hour})

	intervals := &fakeIntervals{minutes: 10}
	require.NoError(t, tasks.Start(context.Background(), intervals))
	first := tasks.serviceLoop

	require.NoError(t, intervals.onChange(context.Background(), 2))

	assert.NotEqual(t, first, tasks.serviceLoop)
	assert.Len(t, tasks.Runtime().Tasks, 3)
	assert.WithinDuration(t, time.Now().Add(2*time.Minute), taskNames(tasks)["服务监控"], 5*time.Second)
}

func TestTasksStart_InvalidCleanupCron(t *testing.T) {
	a, _ := newTestApp(t, &fakeRunner{})
	s := newStartedScheduler(t)
	tasks := NewTasks(a, s, Options{Tick: time.Hour, CleanupCron: "not a cron"})

	assert.Error(t, tasks.Start(context.Background(), nil))
}

func TestTasks_StopAndStartServiceLoop(t *testing.T) {
	a, _ := newTestApp(t, &fakeRunner{})
	s := newStartedScheduler(t)
	tasks := NewTasks(a, s, Options{Tick: time.Hour})

	intervals := &fakeIntervals{minutes: 10}
	require.NoError(t, tasks.Start(context.Background(), intervals))

	status := tasks.ServiceLoopStatus()
	assert.True(t, status.IsRunning)
	assert.Equal(t, 10, status.IntervalMinutes)
	require.NotNil(t, status.NextTime)

	started, err := tasks.StartServiceLoop(context.Background())
	require.NoError(t, err)
	assert.False(t, started)

	assert.True(t, tasks.StopServiceLoop())
	assert.False(t, tasks.StopServiceLoop())
	status = tasks.ServiceLoopStatus()
	assert.False(t, status.IsRunning)
	assert.Nil(t, status.NextTime)
	assert.NotContains(t, taskNames(tasks), "服务监控")
	assert.Len(t, tasks.Runtime().Tasks, 2)

	// 重新启动时读取最新的间隔设置
	intervals.minutes = 3
	started, err = tasks.StartServiceLoop(context.Background())
	require.NoError(t, err)
	assert.True(t, started)
	status = tasks.ServiceLoopStatus()
	assert.True(t, status.IsRunning)
	assert.Equal(t, 3, status.IntervalMinutes)
	assert.WithinDuration(t, time.Now().Add(3*time.Minute), taskNames(tasks)["服务监控"], 5*time.Second)
}
