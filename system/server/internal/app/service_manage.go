package app

import (
	"context"

	"hostpatrol/pkg/core/model/common"
	"hostpatrol/pkg/core/mvc"
	"hostpatrol/pkg/tracker"
	"hostpatrol/system/server/internal/model"
	"hostpatrol/system/server/internal/model/dto"

	"gorm.io/gorm"
)

func toServiceView(svc *model.ServiceConfigModel, serverName string) *dto.ServiceView {
	return &dto.ServiceView{
		ID:                 svc.ID,
		ServerID:           svc.ServerID,
		ServerName:         serverName,
		ServiceName:        svc.ServiceName,
		ProcessName:        svc.ProcessName,
		IsMonitoring:       svc.IsMonitoring,
		Description:        svc.Description,
		LatestStatus:       svc.LatestStatus,
		LatestProcessCount: svc.LatestProcessCount,
		LastMonitorTime:    svc.LastMonitorTime,
		FirstErrorTime:     svc.FirstErrorTime,
		Display:            tracker.Display(tracker.Parse(svc.LatestStatus), svc.IsMonitoring),
		CreatedAt:          svc.CreatedAt,
		UpdatedAt:          svc.UpdatedAt,
	}
}

func (a *App) serverNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	servers, err := a.ServerService.Dao().FindByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(servers))
	for _, s := range servers {
		names[s.ID] = s.Name
	}
	return names, nil
}

func (a *App) ensureServer(ctx context.Context, id int64) (*model.ServerModel, error) {
	server, err := a.ServerService.FindById(ctx, id)
	if err != nil {
		return nil, a.errBuilder.New("服务器不存在", err).NotFound()
	}
	return server, nil
}

// CreateService 创建服务配置
func (a *App) CreateService(ctx context.Context, req *dto.CreateServiceRequest) (*dto.ServiceView, error) {
	server, err := a.ensureServer(ctx, req.ServerID)
	if err != nil {
		return nil, err
	}
	svc, err := a.ServiceConfigSvc.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	return toServiceView(svc, server.Name), nil
}

// UpdateService 更新服务配置
func (a *App) UpdateService(ctx context.Context, id int64, req *dto.UpdateServiceRequest) (*dto.ServiceView, error) {
	if req.ServerID != nil {
		if _, err := a.ensureServer(ctx, *req.ServerID); err != nil {
			return nil, err
		}
	}
	svc, err := a.ServiceConfigSvc.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	names, err := a.serverNames(ctx, []int64{svc.ServerID})
	if err != nil {
		return nil, err
	}
	return toServiceView(svc, names[svc.ServerID]), nil
}

// GetService 服务配置详情
func (a *App) GetService(ctx context.Context, id int64) (*dto.ServiceView, error) {
	svc, err := a.ServiceConfigSvc.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	names, err := a.serverNames(ctx, []int64{svc.ServerID})
	if err != nil {
		return nil, err
	}
	return toServiceView(svc, names[svc.ServerID]), nil
}

// DeleteService 删除服务配置及其监控记录
func (a *App) DeleteService(ctx context.Context, id int64) error {
	_, serviceHooks := a.hooks()
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		serviceDao := a.ServiceConfigSvc.Dao().Tx(tx)
		if _, err := serviceDao.FindById(ctx, id); err != nil {
			return err
		}
		if err := a.runHooks(ctx, tx, serviceHooks, []int64{id}); err != nil {
			return err
		}
		return serviceDao.DeleteById(ctx, id)
	})
}

// BulkDeleteServices 批量删除服务配置
func (a *App) BulkDeleteServices(ctx context.Context, ids []int64) *common.BulkResult {
	return mvc.BulkDelete(ctx, ids, a.DeleteService)
}

// QueryServices 分页查询服务配置
func (a *App) QueryServices(ctx context.Context, req *dto.QueryServiceRequest) ([]*dto.ServiceView, int64, error) {
	services, total, err := a.ServiceConfigSvc.QueryWithPage(ctx, req)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]int64, 0, len(services))
	for _, svc := range services {
		ids = append(ids, svc.ServerID)
	}
	names, err := a.serverNames(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	views := make([]*dto.ServiceView, 0, len(services))
	for _, svc := range services {
		views = append(views, toServiceView(svc, names[svc.ServerID]))
	}
	return views, total, nil
}

// ServerServices 单台服务器下的全部服务
func (a *App) ServerServices(ctx context.Context, serverID int64) ([]*dto.ServiceView, error) {
	server, err := a.ensureServer(ctx, serverID)
	if err != nil {
		return nil, err
	}
	services, err := a.ServiceConfigSvc.ListByServerIDs(ctx, []int64{serverID})
	if err != nil {
		return nil, err
	}
	views := make([]*dto.ServiceView, 0, len(services))
	for _, svc := range services {
		views = append(views, toServiceView(svc, server.Name))
	}
	return views, nil
}

// ServersWithServices 全部服务器及各自的服务，服务配置页使用
func (a *App) ServersWithServices(ctx context.Context) ([]*dto.ServerServices, error) {
	servers, err := a.ServerService.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(servers))
	for _, s := range servers {
		ids = append(ids, s.ID)
	}
	services, err := a.ServiceConfigSvc.ListByServerIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	groups := make([]*dto.ServerServices, 0, len(servers))
	byID := make(map[int64]*dto.ServerServices, len(servers))
	for _, s := range servers {
		g := &dto.ServerServices{
			ID:       s.ID,
			Name:     s.Name,
			Host:     s.Host,
			Port:     s.Port,
			Status:   s.Status,
			Services: []*dto.ServiceView{},
		}
		groups = append(groups, g)
		byID[s.ID] = g
	}
	for _, svc := range services {
		if g := byID[svc.ServerID]; g != nil {
			g.Services = append(g.Services, toServiceView(svc, g.Name))
		}
	}
	return groups, nil
}
