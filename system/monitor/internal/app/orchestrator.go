package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"hostpatrol/pkg/collector"
	"hostpatrol/pkg/collector/parser"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/evaluator"
	"hostpatrol/pkg/patrol"
	"hostpatrol/pkg/sshx"
	"hostpatrol/pkg/tracker"
	serverdto "hostpatrol/system/server/api/dto"

	"github.com/sourcegraph/conc/pool"
)

var errNotProbed = errors.New("未执行进程探测")

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func (a *App) targets(ctx context.Context, plan patrol.Plan) ([]*serverdto.ServerTarget, error) {
	switch plan.Kind {
	case patrol.TargetServer:
		t, err := a.servers.ServerTarget(ctx, plan.ID)
		if err != nil {
			return nil, err
		}
		return []*serverdto.ServerTarget{t}, nil
	case patrol.TargetService:
		t, err := a.servers.ServiceTarget(ctx, plan.ID)
		if err != nil {
			return nil, err
		}
		return []*serverdto.ServerTarget{t}, nil
	default:
		return a.servers.ActiveTargets(ctx)
	}
}

// Run 执行一次巡检。
// 开始时固定目标集合与阈值快照，各主机在独立超时下并发采集，互不影响；
// 全部结束后依次写入日志并回写服务状态。
func (a *App) Run(ctx context.Context, plan patrol.Plan) (*patrol.Summary, error) {
	start := a.now()
	if plan.Kind == patrol.TargetService {
		plan.IncludeHost = false
	}

	targets, err := a.targets(ctx, plan)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, a.err.New("没有找到启用的服务器", nil).ValidWithCtx()
	}

	var thresholds evaluator.Thresholds
	if plan.IncludeHost {
		if thresholds, err = a.thresholds.Snapshot(ctx); err != nil {
			return nil, err
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, a.opts.RunTimeout)
	defer cancel()

	results := make([]patrol.HostResult, len(targets))
	p := pool.New().WithMaxGoroutines(a.opts.Workers)
	for i, t := range targets {
		i, t := i, t
		p.Go(func() {
			defer func() {
				if r := recover(); r != nil {
					a.log.WithField("server", t.Name).Errorf("巡检主机时发生 panic: %v", r)
					results[i] = a.failed(t, fmt.Sprintf("巡检异常: %v", r))
				}
			}()
			results[i] = a.inspect(runCtx, t, thresholds, plan.IncludeHost)
		})
	}
	p.Wait()

	a.persist(ctx, results, plan.IncludeHost)

	summary := &patrol.Summary{
		Results:       results,
		Thresholds:    thresholds,
		MonitorTime:   start,
		ExecutionTime: round3(a.now().Sub(start).Seconds()),
	}
	summary.Tally()

	a.log.WithField("target", plan.Kind.String()).
		WithField("total", summary.Total).
		WithField("success", summary.SuccessCount).
		WithField("warning", summary.WarningCount).
		WithField("failed", summary.FailedCount).
		WithField("services", summary.Services.Total).
		Infof("巡检完成，耗时 %.2fs", summary.ExecutionTime)
	return summary, nil
}

// persist 顺序写入，单连接数据库下不与采集并发
func (a *App) persist(ctx context.Context, results []patrol.HostResult, includeHost bool) {
	if err := a.LogService.SaveRun(ctx, results, includeHost); err != nil {
		a.log.WithErr(err).Error("保存巡检结果失败")
	}

	var updates []serverdto.ServiceStatusUpdate
	for _, r := range results {
		for _, svc := range r.Services {
			updates = append(updates, serverdto.ServiceStatusUpdate{
				ServiceID:      svc.ServiceID,
				State:          svc.Status,
				ProcessCount:   svc.ProcessCount,
				FirstErrorTime: svc.FirstErrorTime,
				MonitorTime:    r.MonitorTime,
			})
		}
	}
	if len(updates) > 0 {
		if err := a.servers.ApplyServiceStatuses(ctx, updates); err != nil {
			a.log.WithErr(err).Error("回写服务状态失败")
		}
	}
	a.invalidateDashboard(ctx)
}

func newHostResult(t *serverdto.ServerTarget) patrol.HostResult {
	return patrol.HostResult{
		ServerID:   t.ServerID,
		ServerName: t.Name,
		ServerIP:   t.Host,
		Alerts:     []evaluator.Alert{},
		DiskInfo:   []parser.DiskRow{},
		Services:   []patrol.ServiceResult{},
	}
}

// failed 无法完成采集的主机结果，其服务记为 error
func (a *App) failed(t *serverdto.ServerTarget, msg string) patrol.HostResult {
	now := a.now()
	res := newHostResult(t)
	res.Status = evaluator.StatusFailed
	res.ErrorMessage = msg
	res.MonitorTime = now
	res.Services = a.serviceResults(t, nil, errors.New(msg), now)
	return res
}

func (a *App) inspect(ctx context.Context, t *serverdto.ServerTarget, thresholds evaluator.Thresholds, includeHost bool) patrol.HostResult {
	start := a.now()
	if t.CredentialErr != "" {
		return a.failed(t, t.CredentialErr)
	}

	hostCtx, cancel := context.WithTimeout(ctx, a.opts.HostTimeout)
	defer cancel()

	probes := make([]collector.ProcessProbe, 0, len(t.Services))
	for _, svc := range t.Services {
		probes = append(probes, collector.ProcessProbe{
			ServiceID:   svc.ID,
			ServiceName: svc.ServiceName,
			ProcessName: svc.ProcessName,
		})
	}

	report, err := a.collector.Collect(hostCtx, collector.Host{
		ServerID: t.ServerID,
		Name:     t.Name,
		Target:   t.Target,
	}, probes, collector.CollectOptions{IncludeHost: includeHost})
	if err == nil && hostCtx.Err() != nil {
		err = hostCtx.Err()
	}
	if err != nil {
		msg := errorc.ParseError(err).Message()
		if errors.Is(err, context.DeadlineExceeded) || hostCtx.Err() != nil {
			msg = fmt.Sprintf("巡检超时（%s）", a.opts.HostTimeout)
			if ctx.Err() != nil {
				msg = fmt.Sprintf("巡检整体超时（%s）", a.opts.RunTimeout)
			}
		} else if msg == "" {
			msg = sshx.SimplifyMessage(err)
		}
		a.log.WithField("server", t.Name).WithField("host", t.Target.Addr()).WithErr(err).Warn("主机巡检失败")
		res := a.failed(t, msg)
		res.ExecutionTime = round3(res.MonitorTime.Sub(start).Seconds())
		return res
	}

	now := a.now()
	res := newHostResult(t)
	if includeHost {
		res.SystemInfo = report.System
		res.CPUUsage = report.CPU
		res.MemoryInfo = report.Memory
		if report.Memory != nil {
			usage := report.Memory.UsagePercent
			res.MemoryUsage = &usage
		}
		if report.Disks != nil {
			res.DiskInfo = report.Disks
		}
		res.Alerts = evaluator.Evaluate(evaluator.Metrics{
			CPU:    res.CPUUsage,
			Memory: res.MemoryUsage,
			Disks:  res.DiskInfo,
		}, thresholds)
	}
	res.ProbeErrors = report.ProbeErrors
	res.Status = evaluator.DeriveStatus(true, res.Alerts)
	res.Services = a.serviceResults(t, report.Processes, nil, now)
	res.MonitorTime = now
	res.ExecutionTime = round3(now.Sub(start).Seconds())
	return res
}

// serviceResults 按目标中的服务顺序计算新状态，hostErr 非空时全部记为 error
func (a *App) serviceResults(t *serverdto.ServerTarget, processes []collector.ProcessResult, hostErr error, now time.Time) []patrol.ServiceResult {
	byID := make(map[int64]collector.ProcessResult, len(processes))
	for _, p := range processes {
		byID[p.Probe.ServiceID] = p
	}

	out := make([]patrol.ServiceResult, 0, len(t.Services))
	for _, svc := range t.Services {
		var (
			probe tracker.Probe
			procs = []parser.Process{}
			msg   string
		)
		if hostErr != nil {
			probe.Err = hostErr
		} else if pr, ok := byID[svc.ID]; !ok {
			probe.Err = errNotProbed
		} else if pr.Err != nil {
			probe.Err = pr.Err
		} else {
			procs = pr.Processes
			probe.Count = len(procs)
		}
		if probe.Err != nil {
			msg = probe.Err.Error()
		}

		tr := tracker.Next(svc.LatestStatus, svc.FirstErrorTime, probe, svc.IsMonitoring, now)
		out = append(out, patrol.ServiceResult{
			ServiceID:      svc.ID,
			ServerID:       t.ServerID,
			ServiceName:    svc.ServiceName,
			ProcessName:    svc.ProcessName,
			ServerName:     t.Name,
			ServerIP:       t.Host,
			Status:         tr.State,
			ProcessCount:   probe.Count,
			ProcessInfo:    procs,
			ErrorMessage:   msg,
			FirstErrorTime: tr.FirstErrorTime,
			Changed:        tr.Entered,
		})
	}
	return out
}
