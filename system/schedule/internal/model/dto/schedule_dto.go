package dto

import (
	"time"

	"hostpatrol/pkg/scheduler"
	"hostpatrol/system/schedule/internal/model"
)

type CreateScheduleRequest struct {
	Name           string               `json:"name" validate:"required,max=100" comment:"任务名称"`
	TaskType       string               `json:"task_type" validate:"required,oneof=daily weekly monthly interval cron" comment:"任务类型"`
	ScheduleConfig model.ScheduleConfig `json:"schedule_config" comment:"调度配置"`
	IsActive       *bool                `json:"is_active" comment:"是否启用"`
	Description    string               `json:"description" validate:"max=500" comment:"描述"`
}

// UpdateScheduleRequest nil 字段保持不变
type UpdateScheduleRequest struct {
	Name           *string               `json:"name" validate:"omitempty,max=100" comment:"任务名称"`
	TaskType       *string               `json:"task_type" validate:"omitempty,oneof=daily weekly monthly interval cron" comment:"任务类型"`
	ScheduleConfig *model.ScheduleConfig `json:"schedule_config" comment:"调度配置"`
	IsActive       *bool                 `json:"is_active" comment:"是否启用"`
	Description    *string               `json:"description" validate:"omitempty,max=500" comment:"描述"`
}

// RuntimeTask 调度器上的一个后台任务
type RuntimeTask struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Distributed bool      `json:"distributed"`
	NextTime    time.Time `json:"next_time"`
}

// RuntimeView 本节点调度器状态
type RuntimeView struct {
	Leader bool                      `json:"leader"`
	Stats  *scheduler.SchedulerStats `json:"stats"`
	Tasks  []RuntimeTask             `json:"tasks"`
}

// ServiceLoopStatus 服务监控循环状态，NextTime 在任务执行期间为空
type ServiceLoopStatus struct {
	IsRunning       bool       `json:"is_running"`
	IntervalMinutes int        `json:"interval_minutes"`
	Leader          bool       `json:"leader"`
	NextTime        *time.Time `json:"next_time,omitempty"`
}
