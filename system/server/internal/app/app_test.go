package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hostpatrol/pkg/core/config"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/util"
	"hostpatrol/pkg/sshx"
	"hostpatrol/pkg/tracker"
	apidto "hostpatrol/system/server/api/dto"
	"hostpatrol/system/server/internal/model"
	"hostpatrol/system/server/internal/model/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTester struct {
	fail map[string]error
}

func (f fakeTester) TestConnection(_ context.Context, t sshx.Target) (time.Duration, error) {
	if err := f.fail[t.Host]; err != nil {
		return 0, err
	}
	return 15 * time.Millisecond, nil
}

func newTestApp(t *testing.T, tester ConnectionTester) *App {
	t.Helper()
	db, err := config.InitSqlite(config.Database{Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.ServerModel{}, &model.ServiceConfigModel{}))
	if tester == nil {
		tester = fakeTester{}
	}
	return NewApp(db, util.NewSecretBox("test-salt"), tester)
}

func createServer(t *testing.T, a *App, name, host string) *model.ServerModel {
	t.Helper()
	s, err := a.CreateServer(context.Background(), &dto.CreateServerRequest{
		Name:     name,
		Host:     host,
		Username: "root",
		Password: "secret",
	})
	require.NoError(t, err)
	return s
}

func createService(t *testing.T, a *App, serverID int64, name string) *dto.ServiceView {
	t.Helper()
	svc, err := a.CreateService(context.Background(), &dto.CreateServiceRequest{
		ServerID:    serverID,
		ServiceName: name,
		ProcessName: name,
	})
	require.NoError(t, err)
	return svc
}

func TestCreateServer_CredentialRule(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()

	_, err := a.CreateServer(ctx, &dto.CreateServerRequest{Name: "both", Host: "10.0.0.1", Username: "root", Password: "p", PrivateKeyPath: "/k"})
	assert.True(t, errorc.IsCode(err, errorc.ErrorCodeConfig))

	_, err = a.CreateServer(ctx, &dto.CreateServerRequest{Name: "none", Host: "10.0.0.1", Username: "root"})
	assert.True(t, errorc.IsCode(err, errorc.ErrorCodeConfig))

	_, err = a.CreateServer(ctx, &dto.CreateServerRequest{Name: "mismatch", Host: "10.0.0.1", Username: "root", AuthType: model.AuthPrivateKey, Password: "p"})
	assert.True(t, errorc.IsCode(err, errorc.ErrorCodeConfig))

	s := createServer(t, a, "web", "10.0.0.1")
	assert.Equal(t, model.AuthPassword, s.AuthType)
	assert.Equal(t, model.DefaultSSHPort, s.Port)
	assert.Equal(t, model.StatusActive, s.Status)
	assert.True(t, strings.HasPrefix(s.Password, util.EncryptedPrefix))

	target, err := a.ServerService.Target(s)
	require.NoError(t, err)
	assert.Equal(t, "secret", target.Password)

	key, err := a.CreateServer(ctx, &dto.CreateServerRequest{Name: "db", Host: "10.0.0.2", Username: "root", PrivateKeyPath: "/root/.ssh/id_rsa"})
	require.NoError(t, err)
	assert.Equal(t, model.AuthPrivateKey, key.AuthType)
	assert.Empty(t, key.Password)
}

func TestCreateServer_Unique(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()
	createServer(t, a, "web", "10.0.0.1")

	_, err := a.CreateServer(ctx, &dto.CreateServerRequest{Name: "web", Host: "10.0.0.9", Username: "root", Password: "p"})
	assert.Equal(t, "服务器名称已存在", errorc.ParseError(err).Message())

	_, err = a.CreateServer(ctx, &dto.CreateServerRequest{Name: "web2", Host: "10.0.0.1", Username: "root", Password: "p"})
	assert.Equal(t, "主机地址和端口组合已存在", errorc.ParseError(err).Message())
}

func TestUpdateServer_SwitchAuth(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()
	s := createServer(t, a, "web", "10.0.0.1")

	authType := model.AuthPrivateKey
	keyPath := "/root/.ssh/id_ed25519"
	updated, err := a.UpdateServer(ctx, s.ID, &dto.UpdateServerRequest{AuthType: &authType, PrivateKeyPath: &keyPath})
	require.NoError(t, err)
	assert.Equal(t, model.AuthPrivateKey, updated.AuthType)

	stored, err := a.GetServer(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Password)
	assert.Equal(t, keyPath, stored.PrivateKeyPath)

	// 只清掉私钥而不给密码，违反二选一
	empty := ""
	_, err = a.UpdateServer(ctx, s.ID, &dto.UpdateServerRequest{PrivateKeyPath: &empty})
	assert.True(t, errorc.IsCode(err, errorc.ErrorCodeConfig))
}

func TestDeleteServer_Cascade(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()
	s := createServer(t, a, "web", "10.0.0.1")
	other := createServer(t, a, "db", "10.0.0.2")
	nginx := createService(t, a, s.ID, "nginx")
	php := createService(t, a, s.ID, "php-fpm")
	kept := createService(t, a, other.ID, "mysqld")

	var serverIDs, serviceIDs []int64
	a.OnServerDelete(func(_ context.Context, tx *gorm.DB, ids []int64) error {
		require.NotNil(t, tx)
		serverIDs = append(serverIDs, ids...)
		return nil
	})
	a.OnServiceDelete(func(_ context.Context, _ *gorm.DB, ids []int64) error {
		serviceIDs = append(serviceIDs, ids...)
		return nil
	})

	require.NoError(t, a.DeleteServer(ctx, s.ID))
	assert.Equal(t, []int64{s.ID}, serverIDs)
	assert.ElementsMatch(t, []int64{nginx.ID, php.ID}, serviceIDs)

	services, err := a.ServerServices(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, kept.ID, services[0].ID)

	_, err = a.GetService(ctx, nginx.ID)
	assert.True(t, errorc.IsNotFound(err))
	_, err = a.GetServer(ctx, s.ID)
	assert.True(t, errorc.IsNotFound(err))
}

func TestDeleteServer_HookFailureRollsBack(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()
	s := createServer(t, a, "web", "10.0.0.1")
	svc := createService(t, a, s.ID, "nginx")

	a.OnServerDelete(func(context.Context, *gorm.DB, []int64) error {
		return errors.New("清理监控日志失败")
	})

	assert.Error(t, a.DeleteServer(ctx, s.ID))
	_, err := a.GetServer(ctx, s.ID)
	assert.NoError(t, err)
	_, err = a.GetService(ctx, svc.ID)
	assert.NoError(t, err)
}

func TestBulkDeleteServers_PerIDResult(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()
	first := createServer(t, a, "a", "10.0.0.1")
	last := createServer(t, a, "b", "10.0.0.2")
	missing := last.ID + 100

	res := a.BulkDeleteServers(ctx, []int64{first.ID, missing, last.ID})
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, 1, res.FailedCount)
	require.Len(t, res.Results, 3)
	assert.True(t, res.Results[0].Success)
	assert.Equal(t, missing, res.Results[1].ID)
	assert.False(t, res.Results[1].Success)
	assert.Equal(t, "记录不存在", res.Results[1].Message)
	assert.True(t, res.Results[2].Success)
}

func TestBatchTest(t *testing.T) {
	a := newTestApp(t, fakeTester{fail: map[string]error{"10.0.0.2": errors.New("认证失败")}})
	ctx := context.Background()
	ok := createServer(t, a, "a", "10.0.0.1")
	bad := createServer(t, a, "b", "10.0.0.2")

	results, err := a.BatchTest(ctx, []int64{ok.ID, bad.ID, 999})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].Success)
	assert.Equal(t, "10.0.0.1:22", results[0].ServerHost)
	assert.Equal(t, 0.015, results[0].ResponseTime)

	assert.False(t, results[1].Success)
	assert.Equal(t, "认证失败", results[1].Message)

	assert.False(t, results[2].Success)
	assert.Equal(t, "服务器不存在", results[2].Message)
}

func TestImportServers(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()
	createServer(t, a, "exists", "10.0.0.1")

	res := a.ImportServers(ctx, []dto.ImportServerItem{
		{Name: "new", Host: "10.0.0.5", Username: "root", Password: "p"},
		{Name: "exists", Host: "10.0.0.6", Username: "root", Password: "p"},
		{Name: "", Host: "10.0.0.7", Username: "root", Password: "p"},
	})
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, "exists", res.FailedItems[0].Name)

	svcRes := a.ImportServices(ctx, []dto.ImportServiceItem{
		{ServerName: "new", ServiceName: "nginx", ProcessName: "nginx"},
		{ServerName: "ghost", ServiceName: "redis", ProcessName: "redis-server"},
		{ServerName: "new", ServiceName: "nginx", ProcessName: "nginx"},
	})
	assert.Equal(t, 1, svcRes.Success)
	assert.Equal(t, "服务器 'ghost' 不存在", svcRes.FailedItems[0].Error)
}

func TestTemplates(t *testing.T) {
	a := newTestApp(t, nil)
	data, err := a.ServerTemplate()
	require.NoError(t, err)
	assert.Contains(t, string(data), "name,host,port,username,password,private_key_path,description,status")

	data, err = a.ServiceTemplate()
	require.NoError(t, err)
	assert.Contains(t, string(data), "server_name,service_name,process_name,is_monitoring,description")
}

func TestServiceMonitoringToggle(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()
	s := createServer(t, a, "web", "10.0.0.1")
	svc := createService(t, a, s.ID, "nginx")
	assert.True(t, svc.IsMonitoring)
	assert.Equal(t, "unknown", svc.LatestStatus)

	now := time.Now()
	require.NoError(t, a.ApplyServiceStatuses(ctx, []apidto.ServiceStatusUpdate{
		{ServiceID: svc.ID, State: tracker.StateStopped, FirstErrorTime: &now, MonitorTime: now},
	}))
	view, err := a.GetService(ctx, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, "stopped", view.LatestStatus)
	assert.NotNil(t, view.FirstErrorTime)
	assert.Equal(t, "停止", view.Display.Label)

	off := false
	view, err = a.UpdateService(ctx, svc.ID, &dto.UpdateServiceRequest{IsMonitoring: &off})
	require.NoError(t, err)
	assert.Equal(t, "unknown", view.LatestStatus)
	assert.Nil(t, view.FirstErrorTime)
	assert.Equal(t, "未启用", view.Display.Label)

	view, err = a.GetService(ctx, svc.ID)
	require.NoError(t, err)
	assert.Nil(t, view.FirstErrorTime)
}

func TestTargetsAndStats(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()
	web := createServer(t, a, "web", "10.0.0.1")
	inactive := "inactive"
	db := createServer(t, a, "db", "10.0.0.2")
	_, err := a.UpdateServer(ctx, db.ID, &dto.UpdateServerRequest{Status: &inactive})
	require.NoError(t, err)

	nginx := createService(t, a, web.ID, "nginx")
	off := false
	_, err = a.CreateService(ctx, &dto.CreateServiceRequest{ServerID: web.ID, ServiceName: "cron", ProcessName: "crond", IsMonitoring: &off})
	require.NoError(t, err)

	targets, err := a.ActiveTargets(ctx)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "secret", targets[0].Target.Password)
	require.Len(t, targets[0].Services, 1)
	assert.Equal(t, nginx.ID, targets[0].Services[0].ID)

	_, err = a.ServiceTarget(ctx, nginx.ID+1)
	assert.True(t, errorc.IsCode(err, errorc.ErrorCodeValid))

	now := time.Now()
	require.NoError(t, a.ApplyServiceStatuses(ctx, []apidto.ServiceStatusUpdate{
		{ServiceID: nginx.ID, State: tracker.StateRunning, ProcessCount: 2, MonitorTime: now},
	}))

	req := &dto.QueryServerRequest{}
	req.Normalize()
	stats, total, err := a.ServersWithStats(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, 2, stats[0].TotalServices)
	assert.Equal(t, 1, stats[0].MonitoringServices)
	assert.Equal(t, 1, stats[0].NormalServices)

	overview, err := a.ServicesOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), overview.Total)
	assert.Equal(t, int64(1), overview.Running)
}
