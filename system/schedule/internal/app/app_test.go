package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hostpatrol/pkg/core/config"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/patrol"
	monitordto "hostpatrol/system/monitor/api/dto"
	"hostpatrol/system/schedule/internal/model"
	"hostpatrol/system/schedule/internal/model/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu    sync.Mutex
	types []string
	err   error
}

func (r *fakeRunner) ExecuteAndReport(_ context.Context, reportType string) (*monitordto.ExecuteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, reportType)
	if r.err != nil {
		return nil, r.err
	}
	return &monitordto.ExecuteResult{TotalServers: 1}, nil
}

func (r *fakeRunner) MonitorAllServices(context.Context) (*patrol.Summary, error) {
	return &patrol.Summary{}, nil
}

func (r *fakeRunner) Cleanup(context.Context, int) error { return nil }

func newTestApp(t *testing.T, runner Runner) (*App, *time.Time) {
	t.Helper()
	db, err := config.InitSqlite(config.Database{Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.ScheduleModel{}))
	a := NewApp(db, runner)
	now := time.Date(2024, 1, 2, 3, 0, 0, 0, time.Local)
	a.now = func() time.Time { return now }
	return a, &now
}

func boolPtr(v bool) *bool { return &v }

func TestCreateSchedule_ComputesNextRun(t *testing.T) {
	a, _ := newTestApp(t, &fakeRunner{})
	ctx := context.Background()

	s, err := a.CreateSchedule(ctx, &dto.CreateScheduleRequest{
		Name:           "周一巡检",
		TaskType:       model.TaskWeekly,
		ScheduleConfig: model.ScheduleConfig{DayOfWeek: 0, Hour: 2, Minute: 30},
	})
	require.NoError(t, err)
	assert.True(t, s.IsActive)
	require.NotNil(t, s.NextRun)
	assert.Equal(t, time.Date(2024, 1, 8, 2, 30, 0, 0, time.Local), *s.NextRun)

	inactive, err := a.CreateSchedule(ctx, &dto.CreateScheduleRequest{
		Name:     "停用",
		TaskType: model.TaskDaily,
		IsActive: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Nil(t, inactive.NextRun)

	got, err := a.GetSchedule(ctx, inactive.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestCreateSchedule_InvalidConfigNotPersisted(t *testing.T) {
	a, _ := newTestApp(t, &fakeRunner{})
	ctx := context.Background()

	_, err := a.CreateSchedule(ctx, &dto.CreateScheduleRequest{
		Name:           "bad",
		TaskType:       model.TaskMonthly,
		ScheduleConfig: model.ScheduleConfig{Day: 40},
	})
	require.Error(t, err)
	assert.True(t, errorc.IsCode(err, errorc.ErrorCodeConfig))

	all, err := a.ListSchedules(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdateSchedule_RecomputesNextRun(t *testing.T) {
	a, _ := newTestApp(t, &fakeRunner{})
	ctx := context.Background()

	s, err := a.CreateSchedule(ctx, &dto.CreateScheduleRequest{
		Name: "daily", TaskType: model.TaskDaily, ScheduleConfig: model.ScheduleConfig{Hour: 9},
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 9, 0, 0, 0, time.Local), *s.NextRun)

	cfg := model.ScheduleConfig{Hour: 1}
	s, err = a.UpdateSchedule(ctx, s.ID, &dto.UpdateScheduleRequest{ScheduleConfig: &cfg})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 3, 1, 0, 0, 0, time.Local), *s.NextRun)

	s, err = a.UpdateSchedule(ctx, s.ID, &dto.UpdateScheduleRequest{IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.Nil(t, s.NextRun)

	_, err = a.UpdateSchedule(ctx, 999, &dto.UpdateScheduleRequest{IsActive: boolPtr(true)})
	assert.True(t, errorc.IsNotFound(err))
}

func TestTick_RunsEachDueScheduleOnce(t *testing.T) {
	runner := &fakeRunner{}
	a, now := newTestApp(t, runner)
	ctx := context.Background()

	for _, name := range []string{"a", "b"} {
		_, err := a.CreateSchedule(ctx, &dto.CreateScheduleRequest{
			Name: name, TaskType: model.TaskDaily, ScheduleConfig: model.ScheduleConfig{Hour: 4},
		})
		require.NoError(t, err)
	}
	_, err := a.CreateSchedule(ctx, &dto.CreateScheduleRequest{
		Name: "later", TaskType: model.TaskDaily, ScheduleConfig: model.ScheduleConfig{Hour: 6},
	})
	require.NoError(t, err)

	n, err := a.Tick(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	*now = time.Date(2024, 1, 2, 4, 0, 30, 0, time.Local)
	n, err = a.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{patrol.ReportScheduled, patrol.ReportScheduled}, runner.types)

	all, err := a.ListSchedules(ctx)
	require.NoError(t, err)
	for _, s := range all {
		if s.Name == "later" {
			assert.Nil(t, s.LastRun)
			continue
		}
		require.NotNil(t, s.LastRun)
		require.NotNil(t, s.NextRun)
		assert.True(t, time.Date(2024, 1, 3, 4, 0, 0, 0, time.Local).Equal(*s.NextRun))
	}

	n, err = a.Tick(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "已执行的任务不会重复触发")
}

func TestTick_FailureStillAdvances(t *testing.T) {
	runner := &fakeRunner{err: errors.New("没有启用的服务器")}
	a, now := newTestApp(t, runner)
	ctx := context.Background()

	s, err := a.CreateSchedule(ctx, &dto.CreateScheduleRequest{
		Name: "x", TaskType: model.TaskInterval,
		ScheduleConfig: model.ScheduleConfig{IntervalType: model.IntervalMinutes, IntervalValue: 10},
	})
	require.NoError(t, err)

	*now = now.Add(11 * time.Minute)
	n, err := a.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := a.GetSchedule(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got.NextRun)
	assert.True(t, got.NextRun.After(*now))
}

func TestDeleteSchedule_NotFound(t *testing.T) {
	a, _ := newTestApp(t, &fakeRunner{})
	err := a.DeleteSchedule(context.Background(), 42)
	assert.True(t, errorc.IsNotFound(err))
}
