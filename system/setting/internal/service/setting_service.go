package service

import (
	"context"
	"strconv"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/system/setting/internal/dao"
	"hostpatrol/system/setting/internal/model"

	"gorm.io/gorm"
)

type SettingService struct {
	dao *dao.GlobalSettingDao
	log *logger.Log
	err *errorc.ErrorBuilder
}

func NewSettingService(db *gorm.DB, log *logger.Log) *SettingService {
	return &SettingService{
		dao: dao.NewGlobalSettingDao(db, log),
		log: log.WithEntryName("SettingService"),
		err: errorc.NewErrorBuilder("SettingService"),
	}
}

// Get 读取字符串值，不存在时返回 def
func (s *SettingService) Get(ctx context.Context, key, def string) (string, error) {
	m, err := s.dao.FindByKey(ctx, key)
	if err != nil {
		if errorc.IsNotFound(err) {
			return def, nil
		}
		return "", err
	}
	return m.Value, nil
}

// GetInt 读取整数值，不存在或无法解析时返回 def
func (s *SettingService) GetInt(ctx context.Context, key string, def int) (int, error) {
	v, err := s.Get(ctx, key, "")
	if err != nil {
		return def, err
	}
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		s.log.WithField("key", key).WithField("value", v).Warn("设置值不是整数，使用默认值")
		return def, nil
	}
	return n, nil
}

func (s *SettingService) Set(ctx context.Context, key, value, description string) error {
	return s.dao.Upsert(ctx, &model.GlobalSettingModel{Key: key, Value: value, Description: description})
}
