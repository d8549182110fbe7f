package db

import (
	"testing"

	"hostpatrol/pkg/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoMigrate(t *testing.T) {
	gdb, err := config.InitSqlite(config.Database{Path: ":memory:"})
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(gdb))
	// 重复执行不报错
	require.NoError(t, AutoMigrate(gdb))

	for _, table := range []string{"patrol_servers", "patrol_services", "patrol_reports", "patrol_schedules"} {
		assert.True(t, gdb.Migrator().HasTable(table), table)
	}
}
