package app

import (
	"context"
	"fmt"

	"hostpatrol/pkg/core/model/common"
	"hostpatrol/pkg/core/mvc"
	"hostpatrol/system/monitor/internal/dao"
	"hostpatrol/system/monitor/internal/model"
	"hostpatrol/system/monitor/internal/model/dto"
	"hostpatrol/utils"
)

func (a *App) toViews(ctx context.Context, logs []*model.MonitorLogModel) ([]*dto.LogView, error) {
	ids := make([]int64, 0, len(logs))
	seen := make(map[int64]bool)
	for _, l := range logs {
		if !seen[l.ServerID] {
			seen[l.ServerID] = true
			ids = append(ids, l.ServerID)
		}
	}
	briefs, err := a.servers.ServerBriefs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]*dto.LogView, 0, len(logs))
	for _, l := range logs {
		v := &dto.LogView{MonitorLogModel: l}
		if b, ok := briefs[l.ServerID]; ok {
			v.ServerName, v.ServerIP = b.Name, b.Host
		} else {
			v.ServerName = fmt.Sprintf("服务器%d", l.ServerID)
		}
		views = append(views, v)
	}
	return views, nil
}

// QueryLogs 分页查询巡检日志
func (a *App) QueryLogs(ctx context.Context, req *dto.QueryLogRequest) ([]*dto.LogView, int64, error) {
	from, to, err := utils.DateRange(req.StartDate, req.EndDate, nil)
	if err != nil {
		return nil, 0, a.err.New("日期格式应为 YYYY-MM-DD", err).ValidWithCtx()
	}
	logs, total, err := a.LogService.QueryWithPage(ctx, dao.LogFilter{
		ServerID: req.ServerID,
		Status:   req.Status,
		From:     from,
		To:       to,
	}, &req.Page)
	if err != nil {
		return nil, 0, err
	}
	views, err := a.toViews(ctx, logs)
	return views, total, err
}

// GetLog 日志详情
func (a *App) GetLog(ctx context.Context, id int64) (*dto.LogView, error) {
	l, err := a.LogService.FindById(ctx, id)
	if err != nil {
		return nil, a.err.New("日志不存在", err).NotFound()
	}
	views, err := a.toViews(ctx, []*model.MonitorLogModel{l})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// DeleteLog 删除一条日志
func (a *App) DeleteLog(ctx context.Context, id int64) error {
	if err := a.LogService.Delete(ctx, id); err != nil {
		return err
	}
	a.invalidateDashboard(ctx)
	return nil
}

// BulkDeleteLogs 逐条删除并返回每个 ID 的结果
func (a *App) BulkDeleteLogs(ctx context.Context, ids []int64) *common.BulkResult {
	res := mvc.BulkDelete(ctx, ids, a.LogService.Delete)
	if res.SuccessCount > 0 {
		a.invalidateDashboard(ctx)
	}
	return res
}

// QueryServiceLogs 服务探测历史
func (a *App) QueryServiceLogs(ctx context.Context, req *dto.QueryServiceLogRequest) ([]*model.ServiceMonitorLogModel, int64, error) {
	return a.LogService.ServiceDao().QueryWithPage(ctx, req.ServiceID, &req.Page)
}
