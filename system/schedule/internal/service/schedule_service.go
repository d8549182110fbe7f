package service

import (
	"context"
	"strings"
	"time"

	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/core/model/common"
	"hostpatrol/pkg/core/mvc"
	"hostpatrol/system/schedule/internal/dao"
	"hostpatrol/system/schedule/internal/model"
	"hostpatrol/system/schedule/internal/model/dto"

	"gorm.io/gorm"
)

// ScheduleService 计划任务服务层，每次写入都重新计算 next_run
type ScheduleService struct {
	mvc.IBaseService[model.ScheduleModel]
	dao *dao.ScheduleDao
	log *logger.Log
}

func NewScheduleService(db *gorm.DB, log *logger.Log) *ScheduleService {
	scheduleDao := dao.NewScheduleDao(db, log)
	return &ScheduleService{
		IBaseService: mvc.NewBaseService[model.ScheduleModel](scheduleDao),
		dao:          scheduleDao,
		log:          log.WithEntryName("ScheduleService"),
	}
}

func (s *ScheduleService) Dao() *dao.ScheduleDao {
	return s.dao
}

// refresh 未启用的任务没有下次执行时间
func refresh(m *model.ScheduleModel, now time.Time) error {
	next, err := NextRun(m.TaskType, m.ScheduleConfig.Data, now)
	if err != nil {
		return err
	}
	if m.IsActive {
		m.NextRun = &next
	} else {
		m.NextRun = nil
	}
	return nil
}

func (s *ScheduleService) Create(ctx context.Context, req *dto.CreateScheduleRequest, now time.Time) (*model.ScheduleModel, error) {
	m := &model.ScheduleModel{
		Name:           strings.TrimSpace(req.Name),
		TaskType:       req.TaskType,
		ScheduleConfig: common.NewJSONValue(req.ScheduleConfig),
		IsActive:       req.IsActive == nil || *req.IsActive,
		Description:    req.Description,
	}
	if err := refresh(m, now); err != nil {
		return nil, err
	}
	if err := s.dao.Create(ctx, m); err != nil {
		return nil, err
	}
	s.log.WithField("name", m.Name).WithField("next_run", m.NextRun).Info("计划任务创建成功")
	return m, nil
}

func (s *ScheduleService) Update(ctx context.Context, id int64, req *dto.UpdateScheduleRequest, now time.Time) (*model.ScheduleModel, error) {
	m, err := s.dao.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		m.Name = strings.TrimSpace(*req.Name)
	}
	if req.TaskType != nil {
		m.TaskType = *req.TaskType
	}
	if req.ScheduleConfig != nil {
		m.ScheduleConfig = common.NewJSONValue(*req.ScheduleConfig)
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if err := refresh(m, now); err != nil {
		return nil, err
	}

	_, err = s.dao.UpdateColumnsById(ctx, id, map[string]interface{}{
		"name":            m.Name,
		"task_type":       m.TaskType,
		"schedule_config": m.ScheduleConfig,
		"is_active":       m.IsActive,
		"next_run":        m.NextRun,
		"description":     m.Description,
	})
	if err != nil {
		return nil, err
	}
	s.log.WithField("id", id).WithField("next_run", m.NextRun).Info("计划任务更新成功")
	return m, nil
}

// Advance 任务执行后记录 last_run 并计算下一次
func (s *ScheduleService) Advance(ctx context.Context, m *model.ScheduleModel, now time.Time) error {
	m.LastRun = &now
	if err := refresh(m, now); err != nil {
		// 配置已失效的任务停止调度
		m.NextRun = nil
		s.log.WithErr(err).WithField("id", m.ID).Warn("计划任务配置无效，已停止调度")
	}
	return s.dao.MarkRun(ctx, m.ID, now, m.NextRun)
}
