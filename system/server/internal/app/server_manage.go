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

// CreateServer 创建服务器
func (a *App) CreateServer(ctx context.Context, req *dto.CreateServerRequest) (*model.ServerModel, error) {
	return a.ServerService.Create(ctx, req)
}

// UpdateServer 更新服务器
func (a *App) UpdateServer(ctx context.Context, id int64, req *dto.UpdateServerRequest) (*model.ServerModel, error) {
	return a.ServerService.Update(ctx, id, req)
}

// GetServer 获取服务器详情
func (a *App) GetServer(ctx context.Context, id int64) (*model.ServerModel, error) {
	return a.ServerService.FindById(ctx, id)
}

// QueryServers 分页查询服务器
func (a *App) QueryServers(ctx context.Context, req *dto.QueryServerRequest) ([]*model.ServerModel, int64, error) {
	return a.ServerService.QueryWithPage(ctx, req)
}

// DeleteServer 在一个事务内删除服务器、其服务以及注册的关联数据
func (a *App) DeleteServer(ctx context.Context, id int64) error {
	serverHooks, serviceHooks := a.hooks()

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		serverDao := a.ServerService.Dao().Tx(tx)
		serviceDao := a.ServiceConfigSvc.Dao().Tx(tx)

		server, err := serverDao.FindById(ctx, id)
		if err != nil {
			return err
		}

		services, err := serviceDao.FindByColumn(ctx, "server_id", id)
		if err != nil {
			return err
		}
		serviceIDs := make([]int64, 0, len(services))
		for _, svc := range services {
			serviceIDs = append(serviceIDs, svc.ID)
		}

		if err := a.runHooks(ctx, tx, serviceHooks, serviceIDs); err != nil {
			return err
		}
		if err := a.runHooks(ctx, tx, serverHooks, []int64{id}); err != nil {
			return err
		}
		if _, err := serviceDao.DeleteByColumn(ctx, "server_id", id); err != nil {
			return err
		}
		if err := serverDao.DeleteById(ctx, id); err != nil {
			return err
		}

		a.log.WithField("name", server.Name).WithField("services", len(serviceIDs)).Info("服务器删除成功")
		return nil
	})
	return err
}

// BulkDeleteServers 逐个删除，每台服务器独立事务
func (a *App) BulkDeleteServers(ctx context.Context, ids []int64) *common.BulkResult {
	return mvc.BulkDelete(ctx, ids, a.DeleteServer)
}

// ServersWithStats 分页服务器列表，附带服务数量与最近状态统计
func (a *App) ServersWithStats(ctx context.Context, req *dto.QueryServerRequest) ([]*dto.ServerWithStats, int64, error) {
	servers, total, err := a.ServerService.QueryWithPage(ctx, req)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(servers))
	for _, s := range servers {
		ids = append(ids, s.ID)
	}
	services, err := a.ServiceConfigSvc.ListByServerIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.ServerWithStats, 0, len(servers))
	byID := make(map[int64]*dto.ServerWithStats, len(servers))
	for _, s := range servers {
		item := &dto.ServerWithStats{
			ID:          s.ID,
			Name:        s.Name,
			Host:        s.Host,
			Port:        s.Port,
			Username:    s.Username,
			Status:      s.Status,
			Description: s.Description,
		}
		items = append(items, item)
		byID[s.ID] = item
	}
	for _, svc := range services {
		item := byID[svc.ServerID]
		if item == nil {
			continue
		}
		item.TotalServices++
		if !svc.IsMonitoring {
			continue
		}
		item.MonitoringServices++
		state := tracker.Parse(svc.LatestStatus)
		switch {
		case state == tracker.StateRunning:
			item.NormalServices++
		case state.Failing():
			item.ErrorServices++
		}
	}
	return items, total, nil
}
