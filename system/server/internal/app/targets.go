package app

import (
	"context"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/tracker"
	apidto "hostpatrol/system/server/api/dto"
	"hostpatrol/system/server/internal/model"
)

func toServiceState(svc *model.ServiceConfigModel) apidto.ServiceState {
	return apidto.ServiceState{
		ID:             svc.ID,
		ServerID:       svc.ServerID,
		ServiceName:    svc.ServiceName,
		ProcessName:    svc.ProcessName,
		IsMonitoring:   svc.IsMonitoring,
		LatestStatus:   tracker.Parse(svc.LatestStatus),
		FirstErrorTime: svc.FirstErrorTime,
	}
}

func (a *App) toTarget(server *model.ServerModel) *apidto.ServerTarget {
	t := &apidto.ServerTarget{
		ServerID: server.ID,
		Name:     server.Name,
		Host:     server.Host,
		Port:     server.Port,
		Services: []apidto.ServiceState{},
	}
	target, err := a.ServerService.Target(server)
	if err != nil {
		t.CredentialErr = errorc.ParseError(err).Message()
	}
	t.Target = target
	return t
}

// attachServices 只挂载启用监控的服务
func (a *App) attachServices(ctx context.Context, targets []*apidto.ServerTarget) error {
	ids := make([]int64, 0, len(targets))
	byID := make(map[int64]*apidto.ServerTarget, len(targets))
	for _, t := range targets {
		ids = append(ids, t.ServerID)
		byID[t.ServerID] = t
	}
	services, err := a.ServiceConfigSvc.ListByServerIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, svc := range services {
		if !svc.IsMonitoring {
			continue
		}
		if t := byID[svc.ServerID]; t != nil {
			t.Services = append(t.Services, toServiceState(svc))
		}
	}
	return nil
}

// ActiveTargets 全部启用服务器及其监控中的服务
func (a *App) ActiveTargets(ctx context.Context) ([]*apidto.ServerTarget, error) {
	servers, err := a.ServerService.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	targets := make([]*apidto.ServerTarget, 0, len(servers))
	for _, s := range servers {
		targets = append(targets, a.toTarget(s))
	}
	if err := a.attachServices(ctx, targets); err != nil {
		return nil, err
	}
	return targets, nil
}

// ServerTarget 指定服务器，不要求处于启用状态
func (a *App) ServerTarget(ctx context.Context, serverID int64) (*apidto.ServerTarget, error) {
	server, err := a.ensureServer(ctx, serverID)
	if err != nil {
		return nil, err
	}
	target := a.toTarget(server)
	if err := a.attachServices(ctx, []*apidto.ServerTarget{target}); err != nil {
		return nil, err
	}
	return target, nil
}

// ServiceTarget 指定服务及其所在服务器
func (a *App) ServiceTarget(ctx context.Context, serviceID int64) (*apidto.ServerTarget, error) {
	svc, err := a.ServiceConfigSvc.FindById(ctx, serviceID)
	if err != nil {
		return nil, a.errBuilder.New("服务配置不存在", err).NotFound()
	}
	if !svc.IsMonitoring {
		return nil, a.errBuilder.New("该服务未启用监控", nil).ValidWithCtx()
	}
	server, err := a.ensureServer(ctx, svc.ServerID)
	if err != nil {
		return nil, err
	}
	target := a.toTarget(server)
	target.Services = []apidto.ServiceState{toServiceState(svc)}
	return target, nil
}

// ApplyServiceStatuses 依次写回服务状态，已被删除的服务跳过
func (a *App) ApplyServiceStatuses(ctx context.Context, updates []apidto.ServiceStatusUpdate) error {
	for _, u := range updates {
		if err := a.ServiceConfigSvc.ApplyStatus(ctx, u.ServiceID, u.State, u.ProcessCount, u.FirstErrorTime, u.MonitorTime); err != nil {
			return err
		}
	}
	return nil
}

// ServicesOverview 全部服务的状态计数
func (a *App) ServicesOverview(ctx context.Context) (*apidto.ServicesOverview, error) {
	rows, err := a.ServiceConfigSvc.Dao().CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	overview := &apidto.ServicesOverview{}
	for _, row := range rows {
		overview.Total += row.Count
		if !row.IsMonitoring {
			continue
		}
		overview.Monitoring += row.Count
		switch tracker.Parse(row.LatestStatus) {
		case tracker.StateRunning:
			overview.Running += row.Count
		case tracker.StateStopped:
			overview.Stopped += row.Count
		case tracker.StateError:
			overview.Error += row.Count
		default:
			overview.Unknown += row.Count
		}
	}
	return overview, nil
}

// ServerBriefs 服务器 ID 到名称与地址的映射，ids 为空时返回全部
func (a *App) ServerBriefs(ctx context.Context, ids []int64) (map[int64]apidto.ServerBrief, error) {
	var (
		servers []*model.ServerModel
		err     error
	)
	if len(ids) > 0 {
		servers, err = a.ServerService.Dao().FindByIds(ctx, ids)
	} else {
		servers, err = a.ServerService.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	briefs := make(map[int64]apidto.ServerBrief, len(servers))
	for _, s := range servers {
		briefs[s.ID] = apidto.ServerBrief{ID: s.ID, Name: s.Name, Host: s.Host, Status: s.Status}
	}
	return briefs, nil
}

// CountActive 启用服务器数量
func (a *App) CountActive(ctx context.Context) (int64, error) {
	return a.ServerService.Dao().CountActive(ctx)
}
