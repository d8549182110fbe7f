package app

import (
	"context"
	"time"

	"hostpatrol/pkg/evaluator"
	"hostpatrol/pkg/patrol"
	apidto "hostpatrol/system/monitor/api/dto"

	"github.com/go-redis/cache/v9"
)

const (
	dashboardKey = "patrol:dashboard"
	dashboardTTL = 30 * time.Second
)

func (a *App) invalidateDashboard(ctx context.Context) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Delete(ctx, dashboardKey); err != nil && err != cache.ErrCacheMiss {
		a.log.WithErr(err).Warn("清除仪表盘缓存失败")
	}
}

// Dashboard 启用服务器的最近一次巡检状态与服务总览，短时缓存，巡检后失效
func (a *App) Dashboard(ctx context.Context) (*apidto.Dashboard, error) {
	if a.cache == nil {
		return a.buildDashboard(ctx)
	}
	var d apidto.Dashboard
	err := a.cache.Once(&cache.Item{
		Ctx:   ctx,
		Key:   dashboardKey,
		Value: &d,
		TTL:   dashboardTTL,
		Do: func(*cache.Item) (interface{}, error) {
			return a.buildDashboard(ctx)
		},
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (a *App) buildDashboard(ctx context.Context) (*apidto.Dashboard, error) {
	total, err := a.servers.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := a.latestSummary(ctx)
	if err != nil {
		return nil, err
	}
	overview, err := a.servers.ServicesOverview(ctx)
	if err != nil {
		return nil, err
	}

	d := &apidto.Dashboard{
		TotalServers:     total,
		SuccessCount:     latest.SuccessCount,
		WarningCount:     latest.WarningCount,
		FailedCount:      latest.FailedCount,
		ServerStatus:     make(map[int64]apidto.ServerStatus, len(latest.Results)),
		ServicesOverview: overview,
	}
	for _, r := range latest.Results {
		d.ServerStatus[r.ServerID] = apidto.ServerStatus{
			ServerName:    r.ServerName,
			Status:        string(r.Status),
			CPUUsage:      r.CPUUsage,
			MemoryUsage:   r.MemoryUsage,
			DiskInfo:      r.DiskInfo,
			AlertCount:    len(r.Alerts),
			MonitorTime:   r.MonitorTime,
			ExecutionTime: r.ExecutionTime,
		}
	}
	return d, nil
}

// latestSummary 由启用服务器各自最近一条巡检日志拼出的汇总，没有日志的服务器不计入
func (a *App) latestSummary(ctx context.Context) (*patrol.Summary, error) {
	briefs, err := a.servers.ServerBriefs(ctx, nil)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(briefs))
	for id, b := range briefs {
		if b.Status == "active" {
			ids = append(ids, id)
		}
	}

	summary := &patrol.Summary{Results: []patrol.HostResult{}}
	if len(ids) == 0 {
		return summary, nil
	}
	logs, err := a.LogService.Dao().LatestPerServer(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, l := range logs {
		b := briefs[l.ServerID]
		summary.Results = append(summary.Results, patrol.HostResult{
			ServerID:      l.ServerID,
			ServerName:    b.Name,
			ServerIP:      b.Host,
			Status:        evaluator.Status(l.Status),
			CPUUsage:      l.CPUUsage,
			MemoryUsage:   l.MemoryUsage,
			MemoryInfo:    l.MemoryInfo.Data,
			DiskInfo:      l.DiskInfo.Data,
			SystemInfo:    l.SystemInfo.Data,
			Alerts:        l.AlertInfo.Data,
			ErrorMessage:  l.ErrorMessage,
			ExecutionTime: l.ExecutionTime,
			MonitorTime:   l.MonitorTime,
		})
		if l.MonitorTime.After(summary.MonitorTime) {
			summary.MonitorTime = l.MonitorTime
		}
	}
	summary.Tally()
	if th, err := a.thresholds.Snapshot(ctx); err == nil {
		summary.Thresholds = th
	}
	return summary, nil
}

// LatestSummary 最近一次巡检状态的汇总，供通知测试使用
func (a *App) LatestSummary(ctx context.Context) (*patrol.Summary, error) {
	return a.latestSummary(ctx)
}
