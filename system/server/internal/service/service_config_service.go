package service

import (
	"context"
	"strings"
	"time"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/core/mvc"
	"hostpatrol/pkg/tracker"
	"hostpatrol/system/server/internal/dao"
	"hostpatrol/system/server/internal/model"
	"hostpatrol/system/server/internal/model/dto"

	"gorm.io/gorm"
)

// ServiceConfigService 服务配置服务层
type ServiceConfigService struct {
	mvc.IBaseService[model.ServiceConfigModel]
	dao *dao.ServiceConfigDao
	log *logger.Log
	err *errorc.ErrorBuilder
}

func NewServiceConfigService(db *gorm.DB, log *logger.Log) *ServiceConfigService {
	serviceDao := dao.NewServiceConfigDao(db, log)
	return &ServiceConfigService{
		IBaseService: mvc.NewBaseService[model.ServiceConfigModel](serviceDao),
		dao:          serviceDao,
		log:          log.WithEntryName("ServiceConfigService"),
		err:          errorc.NewErrorBuilder("ServiceConfigService"),
	}
}

func (s *ServiceConfigService) Dao() *dao.ServiceConfigDao {
	return s.dao
}

func (s *ServiceConfigService) checkUnique(ctx context.Context, serverID int64, name string, excludeID int64) error {
	existing, err := s.dao.FindByServerAndName(ctx, serverID, name)
	if err != nil {
		if errorc.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != excludeID {
		return s.err.New("该服务器下已存在同名服务配置", nil).ValidWithCtx()
	}
	return nil
}

// Create 新建服务配置，初始状态为 unknown
func (s *ServiceConfigService) Create(ctx context.Context, req *dto.CreateServiceRequest) (*model.ServiceConfigModel, error) {
	name := strings.TrimSpace(req.ServiceName)
	if err := s.checkUnique(ctx, req.ServerID, name, 0); err != nil {
		return nil, err
	}

	monitoring := true
	if req.IsMonitoring != nil {
		monitoring = *req.IsMonitoring
	}
	svc := &model.ServiceConfigModel{
		ServerID:     req.ServerID,
		ServiceName:  name,
		ProcessName:  strings.TrimSpace(req.ProcessName),
		IsMonitoring: monitoring,
		Description:  req.Description,
		LatestStatus: string(tracker.StateUnknown),
	}
	if err := s.dao.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// Update 修改服务配置。关闭监控时状态回到 unknown 并清除首次异常时间
func (s *ServiceConfigService) Update(ctx context.Context, id int64, req *dto.UpdateServiceRequest) (*model.ServiceConfigModel, error) {
	svc, err := s.dao.FindById(ctx, id)
	if err != nil {
		return nil, err
	}

	columns := map[string]interface{}{}
	if req.ServerID != nil {
		svc.ServerID = *req.ServerID
		columns["server_id"] = svc.ServerID
	}
	if req.ServiceName != nil {
		svc.ServiceName = strings.TrimSpace(*req.ServiceName)
		columns["service_name"] = svc.ServiceName
	}
	if req.ProcessName != nil {
		svc.ProcessName = strings.TrimSpace(*req.ProcessName)
		columns["process_name"] = svc.ProcessName
	}
	if req.Description != nil {
		svc.Description = *req.Description
		columns["description"] = svc.Description
	}
	if req.IsMonitoring != nil {
		svc.IsMonitoring = *req.IsMonitoring
		columns["is_monitoring"] = svc.IsMonitoring
		if !svc.IsMonitoring {
			svc.LatestStatus = string(tracker.StateUnknown)
			svc.FirstErrorTime = nil
			columns["latest_status"] = svc.LatestStatus
			columns["first_error_time"] = nil
		}
	}
	if len(columns) == 0 {
		return svc, nil
	}

	if err := s.checkUnique(ctx, svc.ServerID, svc.ServiceName, id); err != nil {
		return nil, err
	}
	if _, err := s.dao.UpdateColumnsById(ctx, id, columns); err != nil {
		return nil, err
	}
	return svc, nil
}

// QueryWithPage 分页查询服务配置
func (s *ServiceConfigService) QueryWithPage(ctx context.Context, req *dto.QueryServiceRequest) ([]*model.ServiceConfigModel, int64, error) {
	return s.dao.QueryWithPage(ctx, req.ServerID, req.Keyword, &req.Page)
}

func (s *ServiceConfigService) ListByServerIDs(ctx context.Context, serverIDs []int64) ([]*model.ServiceConfigModel, error) {
	return s.dao.ListByServerIDs(ctx, serverIDs)
}

// ApplyStatus 写回一次进程探测后的状态
func (s *ServiceConfigService) ApplyStatus(ctx context.Context, id int64, state tracker.State, processCount int, firstErr *time.Time, monitorTime time.Time) error {
	return s.dao.UpdateStatus(ctx, id, map[string]interface{}{
		"latest_status":        string(state),
		"latest_process_count": processCount,
		"last_monitor_time":    monitorTime,
		"first_error_time":     firstErr,
	})
}
