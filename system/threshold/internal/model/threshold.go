package model

import (
	"hostpatrol/pkg/core/model/common"
	"hostpatrol/pkg/evaluator"
)

// ThresholdModel 全局告警阈值，表中只保留一行
type ThresholdModel struct {
	common.Model
	CPUThreshold    float64 `gorm:"column:cpu_threshold;not null" json:"cpu_threshold" comment:"CPU阈值(%)"`
	MemoryThreshold float64 `gorm:"column:memory_threshold;not null" json:"memory_threshold" comment:"内存阈值(%)"`
	DiskThreshold   float64 `gorm:"column:disk_threshold;not null" json:"disk_threshold" comment:"磁盘阈值(%)"`
}

func (ThresholdModel) TableName() string {
	return "patrol_thresholds"
}

func (m *ThresholdModel) Thresholds() evaluator.Thresholds {
	return evaluator.Thresholds{
		CPU:    m.CPUThreshold,
		Memory: m.MemoryThreshold,
		Disk:   m.DiskThreshold,
	}
}
