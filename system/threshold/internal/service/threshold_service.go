package service

import (
	"context"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/evaluator"
	"hostpatrol/system/threshold/internal/dao"
	"hostpatrol/system/threshold/internal/model"

	"gorm.io/gorm"
)

// ThresholdService 阈值配置读写，保证表中始终只有一行
type ThresholdService struct {
	dao *dao.ThresholdDao
	log *logger.Log
	err *errorc.ErrorBuilder
}

func NewThresholdService(db *gorm.DB, log *logger.Log) *ThresholdService {
	return &ThresholdService{
		dao: dao.NewThresholdDao(db, log),
		log: log.WithEntryName("ThresholdService"),
		err: errorc.NewErrorBuilder("ThresholdService"),
	}
}

// Get 读取阈值，不存在时写入默认值 80/80/80
func (s *ThresholdService) Get(ctx context.Context) (*model.ThresholdModel, error) {
	m, err := s.dao.First(ctx)
	if err == nil {
		return m, nil
	}
	if !errorc.IsNotFound(err) {
		return nil, err
	}

	def := evaluator.DefaultThresholds()
	m = &model.ThresholdModel{
		CPUThreshold:    def.CPU,
		MemoryThreshold: def.Memory,
		DiskThreshold:   def.Disk,
	}
	if err := s.dao.Create(ctx, m); err != nil {
		return nil, err
	}
	s.log.Info("已写入默认阈值配置")
	return m, nil
}

// Save 校验后覆盖唯一一行
func (s *ThresholdService) Save(ctx context.Context, t evaluator.Thresholds) (*model.ThresholdModel, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	m, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	_, err = s.dao.UpdateColumnsById(ctx, m.ID, map[string]interface{}{
		"cpu_threshold":    t.CPU,
		"memory_threshold": t.Memory,
		"disk_threshold":   t.Disk,
	})
	if err != nil {
		return nil, err
	}
	m.CPUThreshold, m.MemoryThreshold, m.DiskThreshold = t.CPU, t.Memory, t.Disk
	s.log.WithField("cpu", t.CPU).WithField("memory", t.Memory).WithField("disk", t.Disk).Info("阈值配置已更新")
	return m, nil
}
