package app

import (
	"context"
	"errors"
	"testing"

	"hostpatrol/pkg/core/config"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/system/setting/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	db, err := config.InitSqlite(config.Database{Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.GlobalSettingModel{}))
	return NewApp(db)
}

func TestServiceMonitorInterval(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	n, err := a.ServiceMonitorInterval(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultServiceMonitorInterval, n)

	var notified []int
	a.OnIntervalChange(func(_ context.Context, minutes int) error {
		notified = append(notified, minutes)
		return errors.New("loop not running")
	})

	require.NoError(t, a.SetServiceMonitorInterval(ctx, 15))
	require.NoError(t, a.SetServiceMonitorInterval(ctx, 1440))
	assert.Equal(t, []int{15, 1440}, notified)

	n, err = a.ServiceMonitorInterval(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1440, n)
}

func TestSetServiceMonitorInterval_OutOfRange(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	for _, v := range []int{0, -3, 1441} {
		err := a.SetServiceMonitorInterval(ctx, v)
		assert.True(t, errorc.IsCode(err, errorc.ErrorCodeValid), "value %d", v)
	}
}
