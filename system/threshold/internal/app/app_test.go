package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"hostpatrol/pkg/core/config"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/evaluator"
	"hostpatrol/system/threshold/internal/model"

	"github.com/go-redis/cache/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, withCache bool) *App {
	t.Helper()
	return newTestAppAt(t, ":memory:", withCache)
}

func newTestAppAt(t *testing.T, path string, withCache bool) *App {
	t.Helper()
	db, err := config.InitSqlite(config.Database{Path: path})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.ThresholdModel{}))

	var c *cache.Cache
	if withCache {
		c = cache.New(&cache.Options{LocalCache: cache.NewTinyLFU(100, time.Minute)})
	}
	return NewApp(db, c)
}

func TestSnapshot_DefaultsCreated(t *testing.T) {
	for _, withCache := range []bool{false, true} {
		a := newTestApp(t, withCache)
		snap, err := a.Snapshot(context.Background())
		require.NoError(t, err)
		assert.Equal(t, evaluator.DefaultThresholds(), snap)

		m, err := a.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, float64(80), m.DiskThreshold)
	}
}

func TestUpdate_SwapsSnapshot(t *testing.T) {
	a := newTestApp(t, true)
	ctx := context.Background()

	before, err := a.Snapshot(ctx)
	require.NoError(t, err)

	_, err = a.Update(ctx, evaluator.Thresholds{CPU: 90, Memory: 70, Disk: 95})
	require.NoError(t, err)

	after, err := a.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, evaluator.Thresholds{CPU: 90, Memory: 70, Disk: 95}, after)
	// 已取得的快照不受影响
	assert.Equal(t, float64(80), before.CPU)

	first, err := a.Get(ctx)
	require.NoError(t, err)
	_, err = a.Update(ctx, evaluator.Thresholds{CPU: 50, Memory: 50, Disk: 50})
	require.NoError(t, err)
	second, err := a.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, float64(50), second.CPUThreshold)
}

func TestUpdate_RejectsOutOfRange(t *testing.T) {
	a := newTestApp(t, false)
	ctx := context.Background()

	_, err := a.Update(ctx, evaluator.Thresholds{CPU: 0, Memory: 80, Disk: 80})
	assert.True(t, errorc.IsCode(err, errorc.ErrorCodeConfig))

	_, err = a.Update(ctx, evaluator.Thresholds{CPU: 80, Memory: 101, Disk: 80})
	assert.True(t, errorc.IsCode(err, errorc.ErrorCodeConfig))

	snap, err := a.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, evaluator.DefaultThresholds(), snap)
}

func TestSnapshot_SeesUpdateFromOtherInstance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patrol.db")
	a := newTestAppAt(t, path, true)
	b := newTestAppAt(t, path, true)
	ctx := context.Background()

	snap, err := b.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, evaluator.DefaultThresholds(), snap)

	_, err = a.Update(ctx, evaluator.Thresholds{CPU: 50, Memory: 50, Disk: 50})
	require.NoError(t, err)

	snap, err = b.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, evaluator.Thresholds{CPU: 50, Memory: 50, Disk: 50}, snap)
}

func TestSnapshot_HonorsCanceledContext(t *testing.T) {
	a := newTestApp(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Snapshot(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
