package app

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hostpatrol/pkg/collector"
	"hostpatrol/pkg/collector/parser"
	"hostpatrol/pkg/core/config"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/mvc"
	"hostpatrol/pkg/evaluator"
	"hostpatrol/pkg/patrol"
	"hostpatrol/pkg/sshx"
	"hostpatrol/pkg/tracker"
	"hostpatrol/system/monitor/internal/dao"
	"hostpatrol/system/monitor/internal/model"
	serverdto "hostpatrol/system/server/api/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeServers struct {
	mu      sync.Mutex
	targets []*serverdto.ServerTarget
	updates []serverdto.ServiceStatusUpdate
}

func (f *fakeServers) ActiveTargets(context.Context) ([]*serverdto.ServerTarget, error) {
	return f.targets, nil
}

func (f *fakeServers) ServerTarget(_ context.Context, id int64) (*serverdto.ServerTarget, error) {
	for _, t := range f.targets {
		if t.ServerID == id {
			return t, nil
		}
	}
	return nil, errorc.NewErrorBuilder("fake").New("服务器不存在", nil).NotFound()
}

func (f *fakeServers) ServiceTarget(_ context.Context, id int64) (*serverdto.ServerTarget, error) {
	for _, t := range f.targets {
		for _, svc := range t.Services {
			if svc.ID == id {
				cp := *t
				cp.Services = []serverdto.ServiceState{svc}
				return &cp, nil
			}
		}
	}
	return nil, errorc.NewErrorBuilder("fake").New("服务不存在", nil).NotFound()
}

func (f *fakeServers) ApplyServiceStatuses(_ context.Context, updates []serverdto.ServiceStatusUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, updates...)
	return nil
}

func (f *fakeServers) ServerBriefs(context.Context, []int64) (map[int64]serverdto.ServerBrief, error) {
	out := make(map[int64]serverdto.ServerBrief, len(f.targets))
	for _, t := range f.targets {
		out[t.ServerID] = serverdto.ServerBrief{ID: t.ServerID, Name: t.Name, Host: t.Host, Status: "active"}
	}
	return out, nil
}

func (f *fakeServers) ServicesOverview(context.Context) (*serverdto.ServicesOverview, error) {
	return &serverdto.ServicesOverview{}, nil
}

func (f *fakeServers) CountActive(context.Context) (int64, error) {
	return int64(len(f.targets)), nil
}

type fixedThresholds evaluator.Thresholds

func (t fixedThresholds) Snapshot(context.Context) (evaluator.Thresholds, error) {
	return evaluator.Thresholds(t), nil
}

// fakeCollector 按主机名返回预设结果
type fakeCollector struct {
	reports map[string]*collector.Report
	errs    map[string]error
	block   map[string]bool
}

func (f *fakeCollector) Collect(ctx context.Context, host collector.Host, probes []collector.ProcessProbe, opts collector.CollectOptions) (*collector.Report, error) {
	if f.block[host.Name] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := f.errs[host.Name]; err != nil {
		return nil, err
	}
	if r, ok := f.reports[host.Name]; ok {
		return r, nil
	}
	r := &collector.Report{}
	for _, p := range probes {
		r.Processes = append(r.Processes, collector.ProcessResult{
			Probe:     p,
			Processes: []parser.Process{{PID: 100, Command: p.ProcessName}},
		})
	}
	return r, nil
}

func f64(v float64) *float64 { return &v }

func target(id int64, name string, services ...serverdto.ServiceState) *serverdto.ServerTarget {
	return &serverdto.ServerTarget{
		ServerID: id,
		Name:     name,
		Host:     "10.0.0." + name,
		Port:     22,
		Target:   sshx.Target{Host: "10.0.0." + name, Port: 22, Username: "root", Password: "x"},
		Services: services,
	}
}

func newTestApp(t *testing.T, servers *fakeServers, hc HostCollector) *App {
	t.Helper()
	a, _ := newTestAppWithOptions(t, servers, hc, Options{Workers: 2, HostTimeout: 200 * time.Millisecond})
	return a
}

func newTestAppWithOptions(t *testing.T, servers *fakeServers, hc HostCollector, opts Options) (*App, *gorm.DB) {
	t.Helper()
	db, err := config.InitSqlite(config.Database{Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.MonitorLogModel{}, &model.ServiceMonitorLogModel{}))
	th := fixedThresholds(evaluator.DefaultThresholds())
	return NewApp(db, servers, th, hc, nil, opts), db
}

func TestRun_HostFailureIsolation(t *testing.T) {
	servers := &fakeServers{targets: []*serverdto.ServerTarget{
		target(1, "1"),
		target(2, "2", serverdto.ServiceState{ID: 20, ServerID: 2, ServiceName: "nginx", ProcessName: "nginx", IsMonitoring: true, LatestStatus: tracker.StateRunning}),
		target(3, "3"),
	}}
	hc := &fakeCollector{
		reports: map[string]*collector.Report{
			"1": {CPU: f64(10), Memory: &parser.MemoryInfo{UsagePercent: 20}},
			"3": {CPU: f64(12), Memory: &parser.MemoryInfo{UsagePercent: 30}},
		},
		errs: map[string]error{"2": &sshx.ConnectionError{Kind: sshx.KindUnreachable, Addr: "10.0.0.2:22", Err: errors.New("connection refused")}},
	}
	a := newTestApp(t, servers, hc)

	summary, err := a.Run(context.Background(), patrol.All(true))
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.SuccessCount)
	assert.Equal(t, 1, summary.FailedCount)

	assert.Equal(t, evaluator.StatusSuccess, summary.Results[0].Status)
	assert.Equal(t, evaluator.StatusFailed, summary.Results[1].Status)
	assert.NotEmpty(t, summary.Results[1].ErrorMessage)
	assert.Equal(t, evaluator.StatusSuccess, summary.Results[2].Status)

	// 主机失败时其服务无法判断，记为 error
	require.Len(t, summary.Results[1].Services, 1)
	svc := summary.Results[1].Services[0]
	assert.Equal(t, tracker.StateError, svc.Status)
	assert.True(t, svc.Changed)
	require.NotNil(t, svc.FirstErrorTime)

	logs, total, err := a.LogService.QueryWithPage(context.Background(), dao.LogFilter{}, &mvc.Page{PageNum: 1, Size: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, logs, 3)
	require.Len(t, servers.updates, 1)
	assert.Equal(t, tracker.StateError, servers.updates[0].State)
}

func TestRun_ThresholdExample(t *testing.T) {
	servers := &fakeServers{targets: []*serverdto.ServerTarget{target(1, "1")}}
	hc := &fakeCollector{reports: map[string]*collector.Report{
		"1": {
			CPU:    f64(85),
			Memory: &parser.MemoryInfo{UsagePercent: 70},
			Disks: []parser.DiskRow{
				{Filesystem: "/dev/sda1", UsePercent: 90, MountedOn: "/"},
				{Filesystem: "/dev/sdb1", UsePercent: 40, MountedOn: "/data"},
			},
		},
	}}
	a := newTestApp(t, servers, hc)

	summary, err := a.Run(context.Background(), patrol.All(true))
	require.NoError(t, err)
	r := summary.Results[0]
	assert.Equal(t, evaluator.StatusWarning, r.Status)
	require.Len(t, r.Alerts, 2)
	assert.Equal(t, evaluator.AlertCPU, r.Alerts[0].Type)
	assert.Equal(t, evaluator.AlertDisk, r.Alerts[1].Type)
	assert.Equal(t, "/", r.Alerts[1].MountedOn)
	assert.Equal(t, 1, summary.WarningCount)
	assert.Equal(t, 2, summary.AlertCount())
}

func TestRun_HostTimeout(t *testing.T) {
	servers := &fakeServers{targets: []*serverdto.ServerTarget{target(1, "1"), target(2, "2")}}
	hc := &fakeCollector{block: map[string]bool{"1": true}}
	a := newTestApp(t, servers, hc)

	summary, err := a.Run(context.Background(), patrol.All(true))
	require.NoError(t, err)
	assert.Equal(t, evaluator.StatusFailed, summary.Results[0].Status)
	assert.Contains(t, summary.Results[0].ErrorMessage, "巡检超时")
	assert.Equal(t, evaluator.StatusSuccess, summary.Results[1].Status)
}

// countingCollector 统计同时在采集的主机数
type countingCollector struct {
	fakeCollector
	delay    time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (c *countingCollector) Collect(ctx context.Context, host collector.Host, probes []collector.ProcessProbe, opts collector.CollectOptions) (*collector.Report, error) {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		seen := c.maxSeen.Load()
		if n <= seen || c.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	select {
	case <-time.After(c.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return c.fakeCollector.Collect(ctx, host, probes, opts)
}

func TestRun_WorkerLimitAndRunTimeout(t *testing.T) {
	servers := &fakeServers{}
	for i := int64(1); i <= 8; i++ {
		servers.targets = append(servers.targets, target(i, strconv.FormatInt(i, 10)))
	}
	hc := &countingCollector{
		fakeCollector: fakeCollector{block: map[string]bool{"7": true, "8": true}},
		delay:         20 * time.Millisecond,
	}
	a, _ := newTestAppWithOptions(t, servers, hc, Options{
		Workers:     3,
		HostTimeout: 5 * time.Second,
		RunTimeout:  150 * time.Millisecond,
	})

	start := time.Now()
	summary, err := a.Run(context.Background(), patrol.All(true))
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)

	assert.LessOrEqual(t, hc.maxSeen.Load(), int32(3))
	assert.Equal(t, 8, summary.Total)
	assert.Equal(t, 6, summary.SuccessCount)
	assert.Equal(t, 2, summary.FailedCount)
	assert.Contains(t, summary.Results[6].ErrorMessage, "巡检整体超时")
	assert.Contains(t, summary.Results[7].ErrorMessage, "巡检整体超时")

	// 超时的主机同样写入日志
	_, total, err := a.LogService.QueryWithPage(context.Background(), dao.LogFilter{}, &mvc.Page{PageNum: 1, Size: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 8, total)
}

func TestRun_NoActiveServers(t *testing.T) {
	a := newTestApp(t, &fakeServers{}, &fakeCollector{})
	_, err := a.Run(context.Background(), patrol.All(true))
	require.Error(t, err)
	assert.Equal(t, "没有找到启用的服务器", errorc.ParseError(err).Message())
}

func TestRun_ServiceTransitions(t *testing.T) {
	since := time.Now().Add(-time.Hour)
	servers := &fakeServers{targets: []*serverdto.ServerTarget{
		target(1, "1",
			serverdto.ServiceState{ID: 10, ServerID: 1, ServiceName: "api", ProcessName: "api", IsMonitoring: true, LatestStatus: tracker.StateRunning},
			serverdto.ServiceState{ID: 11, ServerID: 1, ServiceName: "worker", ProcessName: "worker", IsMonitoring: true, LatestStatus: tracker.StateStopped, FirstErrorTime: &since},
			serverdto.ServiceState{ID: 12, ServerID: 1, ServiceName: "cron", ProcessName: "cron", IsMonitoring: false, LatestStatus: tracker.StateStopped, FirstErrorTime: &since},
		),
	}}
	hc := &fakeCollector{reports: map[string]*collector.Report{
		"1": {Processes: []collector.ProcessResult{
			{Probe: collector.ProcessProbe{ServiceID: 10}, Processes: []parser.Process{}},
			{Probe: collector.ProcessProbe{ServiceID: 11}, Processes: []parser.Process{}},
			{Probe: collector.ProcessProbe{ServiceID: 12}, Processes: []parser.Process{{PID: 1}}},
		}},
	}}
	a := newTestApp(t, servers, hc)

	summary, err := a.Run(context.Background(), patrol.All(false))
	require.NoError(t, err)
	svcs := summary.Results[0].Services
	require.Len(t, svcs, 3)

	assert.Equal(t, tracker.StateStopped, svcs[0].Status)
	assert.True(t, svcs[0].Changed)
	require.NotNil(t, svcs[0].FirstErrorTime)

	// 持续停止保留最初的异常时间
	assert.Equal(t, tracker.StateStopped, svcs[1].Status)
	assert.False(t, svcs[1].Changed)
	assert.Equal(t, since, *svcs[1].FirstErrorTime)

	assert.Equal(t, tracker.StateUnknown, svcs[2].Status)
	assert.Nil(t, svcs[2].FirstErrorTime)

	assert.Equal(t, 3, summary.Services.Total)
	assert.Len(t, summary.FailingServices(), 2)

	// 只探测服务时不写主机日志
	_, total, err := a.LogService.QueryWithPage(context.Background(), dao.LogFilter{}, &mvc.Page{PageNum: 1, Size: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestRun_SingleServiceTarget(t *testing.T) {
	servers := &fakeServers{targets: []*serverdto.ServerTarget{
		target(1, "1",
			serverdto.ServiceState{ID: 10, ServerID: 1, ServiceName: "api", ProcessName: "api", IsMonitoring: true},
			serverdto.ServiceState{ID: 11, ServerID: 1, ServiceName: "db", ProcessName: "db", IsMonitoring: true},
		),
	}}
	a := newTestApp(t, servers, &fakeCollector{})

	summary, err := a.Run(context.Background(), patrol.Service(11))
	require.NoError(t, err)
	require.Len(t, summary.Results[0].Services, 1)
	assert.Equal(t, int64(11), summary.Results[0].Services[0].ServiceID)
	assert.Equal(t, tracker.StateRunning, summary.Results[0].Services[0].Status)
}

type recordingNotifier struct {
	texts []string
}

func (n *recordingNotifier) Notify(context.Context, *patrol.Summary, *patrol.ReportRef) (*patrol.Dispatch, error) {
	d := &patrol.Dispatch{}
	d.Add(patrol.ChannelResult{ChannelID: 1, ChannelName: "ops", Success: true})
	d.Add(patrol.ChannelResult{ChannelID: 2, ChannelName: "oss", Success: true, URL: "https://oss.example.com/r.html"})
	return d, nil
}

func (n *recordingNotifier) SendText(_ context.Context, content string) (*patrol.Dispatch, error) {
	n.texts = append(n.texts, content)
	d := &patrol.Dispatch{}
	d.Add(patrol.ChannelResult{ChannelID: 1, ChannelName: "ops", Success: true})
	return d, nil
}

type fakeReporter struct {
	err      error
	attached map[int64]string
}

func (r *fakeReporter) AttachURL(_ context.Context, id int64, url string) error {
	if r.attached == nil {
		r.attached = map[int64]string{}
	}
	r.attached[id] = url
	return nil
}

func (r *fakeReporter) Generate(_ context.Context, _ *patrol.Summary, reportType string) (*patrol.ReportRef, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &patrol.ReportRef{ID: 7, Name: reportType + "_report", Path: "/tmp/" + reportType + "_report.html"}, nil
}

func TestExecuteAndReport(t *testing.T) {
	servers := &fakeServers{targets: []*serverdto.ServerTarget{target(1, "1")}}
	a := newTestApp(t, servers, &fakeCollector{reports: map[string]*collector.Report{"1": {CPU: f64(1)}}})

	res, err := a.ExecuteAndReport(context.Background(), patrol.ReportManual)
	require.NoError(t, err)
	assert.Equal(t, "未配置通知", res.NotificationMessage)
	assert.False(t, res.NotificationSent)

	n := &recordingNotifier{}
	rep := &fakeReporter{}
	a.SetPipeline(rep, n)
	res, err = a.ExecuteAndReport(context.Background(), patrol.ReportManual)
	require.NoError(t, err)
	assert.EqualValues(t, 7, res.ReportID)
	assert.True(t, res.NotificationSent)
	assert.Equal(t, "https://oss.example.com/r.html", rep.attached[7])

	a.SetPipeline(&fakeReporter{err: errors.New("磁盘已满")}, n)
	res, err = a.ExecuteAndReport(context.Background(), patrol.ReportScheduled)
	require.NoError(t, err)
	assert.NotEmpty(t, res.ReportError)
	assert.Zero(t, res.ReportID)
}

func TestMonitorServices_AlertsOnFailure(t *testing.T) {
	servers := &fakeServers{targets: []*serverdto.ServerTarget{
		target(1, "1", serverdto.ServiceState{ID: 10, ServerID: 1, ServiceName: "api", ProcessName: "api", IsMonitoring: true}),
	}}
	hc := &fakeCollector{reports: map[string]*collector.Report{
		"1": {Processes: []collector.ProcessResult{{Probe: collector.ProcessProbe{ServiceID: 10}}}},
	}}
	a := newTestApp(t, servers, hc)
	n := &recordingNotifier{}
	a.SetPipeline(nil, n)

	_, err := a.MonitorServices(context.Background(), patrol.All(false))
	require.NoError(t, err)
	require.Len(t, n.texts, 1)
	assert.Contains(t, n.texts[0], "api")

	// 单台服务器范围不发送告警
	_, err = a.MonitorServices(context.Background(), patrol.Server(1, false))
	require.NoError(t, err)
	assert.Len(t, n.texts, 1)
}

func TestLatestSummaryAndDashboard(t *testing.T) {
	servers := &fakeServers{targets: []*serverdto.ServerTarget{target(1, "1"), target(2, "2")}}
	hc := &fakeCollector{
		reports: map[string]*collector.Report{"1": {CPU: f64(95)}},
		errs:    map[string]error{"2": errors.New("boom")},
	}
	a := newTestApp(t, servers, hc)
	_, err := a.Run(context.Background(), patrol.All(true))
	require.NoError(t, err)

	d, err := a.Dashboard(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, d.TotalServers)
	assert.Equal(t, 1, d.WarningCount)
	assert.Equal(t, 1, d.FailedCount)
	assert.Equal(t, "warning", d.ServerStatus[1].Status)
	assert.Equal(t, 1, d.ServerStatus[1].AlertCount)
}
