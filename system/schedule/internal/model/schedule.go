package model

import (
	"time"

	"hostpatrol/pkg/core/model/common"
)

// 计划任务类型
const (
	TaskDaily    = "daily"
	TaskWeekly   = "weekly"
	TaskMonthly  = "monthly"
	TaskInterval = "interval"
	TaskCron     = "cron"
)

// 间隔单位
const (
	IntervalMinutes = "minutes"
	IntervalHours   = "hours"
	IntervalDays    = "days"
)

// ScheduleConfig 触发配置。DayOfWeek 0 表示周一，6 表示周日
type ScheduleConfig struct {
	Hour           int    `json:"hour"`
	Minute         int    `json:"minute"`
	DayOfWeek      int    `json:"day_of_week"`
	Day            int    `json:"day"`
	IntervalType   string `json:"interval_type,omitempty"`
	IntervalValue  int    `json:"interval_value,omitempty"`
	CronExpression string `json:"cron_expression,omitempty"`
}

// ScheduleModel 计划巡检任务
type ScheduleModel struct {
	common.Model
	Name           string                           `gorm:"type:varchar(100);not null;comment:任务名称" json:"name"`
	TaskType       string                           `gorm:"type:varchar(20);not null;comment:任务类型" json:"task_type"`
	ScheduleConfig common.JSONValue[ScheduleConfig] `gorm:"type:text" json:"schedule_config"`
	IsActive       bool                             `gorm:"not null;index;comment:是否启用" json:"is_active"`
	NextRun        *time.Time                       `gorm:"index;comment:下次执行时间" json:"next_run"`
	LastRun        *time.Time                       `gorm:"comment:上次执行时间" json:"last_run"`
	Description    string                           `gorm:"type:varchar(500)" json:"description"`
}

func (ScheduleModel) TableName() string {
	return "patrol_schedules"
}
