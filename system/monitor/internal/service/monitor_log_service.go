package service

import (
	"context"
	"time"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/core/model/common"
	"hostpatrol/pkg/core/mvc"
	"hostpatrol/pkg/patrol"
	"hostpatrol/system/monitor/internal/dao"
	"hostpatrol/system/monitor/internal/model"

	"gorm.io/gorm"
)

// MonitorLogService 主机巡检日志与服务探测记录
type MonitorLogService struct {
	mvc.IBaseService[model.MonitorLogModel]
	dao        *dao.MonitorLogDao
	serviceDao *dao.ServiceLogDao
	db         *gorm.DB
	log        *logger.Log
	err        *errorc.ErrorBuilder
}

func NewMonitorLogService(db *gorm.DB, log *logger.Log) *MonitorLogService {
	logDao := dao.NewMonitorLogDao(db, log)
	return &MonitorLogService{
		IBaseService: mvc.NewBaseService[model.MonitorLogModel](logDao),
		dao:          logDao,
		serviceDao:   dao.NewServiceLogDao(db, log),
		db:           db,
		log:          log.WithEntryName("MonitorLogService"),
		err:          errorc.NewErrorBuilder("MonitorLogService"),
	}
}

func (s *MonitorLogService) Dao() *dao.MonitorLogDao {
	return s.dao
}

func (s *MonitorLogService) ServiceDao() *dao.ServiceLogDao {
	return s.serviceDao
}

func hostLog(r *patrol.HostResult) *model.MonitorLogModel {
	return &model.MonitorLogModel{
		ServerID:      r.ServerID,
		MonitorTime:   r.MonitorTime,
		Status:        string(r.Status),
		CPUUsage:      r.CPUUsage,
		MemoryUsage:   r.MemoryUsage,
		SystemInfo:    common.NewJSONValue(r.SystemInfo),
		MemoryInfo:    common.NewJSONValue(r.MemoryInfo),
		DiskInfo:      common.NewJSONValue(r.DiskInfo),
		AlertInfo:     common.NewJSONValue(r.Alerts),
		ExecutionTime: r.ExecutionTime,
		ErrorMessage:  r.ErrorMessage,
	}
}

func serviceLog(r *patrol.ServiceResult, at time.Time) *model.ServiceMonitorLogModel {
	return &model.ServiceMonitorLogModel{
		ServiceID:    r.ServiceID,
		ServerID:     r.ServerID,
		MonitorTime:  at,
		Status:       string(r.Status),
		ProcessCount: r.ProcessCount,
		ProcessInfo:  common.NewJSONValue(r.ProcessInfo),
		ErrorMessage: r.ErrorMessage,
	}
}

// SaveRun 在一个事务内依次写入本次巡检的主机日志与服务探测记录
func (s *MonitorLogService) SaveRun(ctx context.Context, results []patrol.HostResult, includeHost bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		logDao := s.dao.Tx(tx)
		svcDao := s.serviceDao.Tx(tx)
		for i := range results {
			r := &results[i]
			if includeHost {
				if err := logDao.Create(ctx, hostLog(r)); err != nil {
					return err
				}
			}
			for j := range r.Services {
				if err := svcDao.Create(ctx, serviceLog(&r.Services[j], r.MonitorTime)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// QueryWithPage 分页查询主机巡检日志
func (s *MonitorLogService) QueryWithPage(ctx context.Context, f dao.LogFilter, page *mvc.Page) ([]*model.MonitorLogModel, int64, error) {
	return s.dao.QueryWithPage(ctx, f, page)
}

// Delete 删除一条巡检日志
func (s *MonitorLogService) Delete(ctx context.Context, id int64) error {
	if _, err := s.dao.FindById(ctx, id); err != nil {
		return err
	}
	return s.dao.DeleteById(ctx, id)
}

// DeleteByServers 删除服务器的全部日志，tx 为服务器删除所在事务
func (s *MonitorLogService) DeleteByServers(ctx context.Context, tx *gorm.DB, serverIDs []int64) error {
	n, err := s.dao.Tx(tx).DeleteByServerIDs(ctx, serverIDs)
	if err != nil {
		return err
	}
	m, err := s.serviceDao.Tx(tx).DeleteByColumnIn(ctx, "server_id", serverIDs)
	if err != nil {
		return err
	}
	s.log.WithField("servers", serverIDs).WithField("logs", n).WithField("service_logs", m).Info("已删除服务器巡检记录")
	return nil
}

// DeleteByServices 删除服务的探测记录
func (s *MonitorLogService) DeleteByServices(ctx context.Context, tx *gorm.DB, serviceIDs []int64) error {
	_, err := s.serviceDao.Tx(tx).DeleteByColumnIn(ctx, "service_id", serviceIDs)
	return err
}

// Cleanup 删除早于 cutoff 的主机日志与服务探测记录
func (s *MonitorLogService) Cleanup(ctx context.Context, cutoff time.Time) (hostLogs, serviceLogs int64, err error) {
	if hostLogs, err = s.dao.DeleteBefore(ctx, cutoff); err != nil {
		return 0, 0, err
	}
	if serviceLogs, err = s.serviceDao.DeleteBefore(ctx, cutoff); err != nil {
		return hostLogs, 0, err
	}
	return hostLogs, serviceLogs, nil
}
