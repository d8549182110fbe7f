package model

import "hostpatrol/pkg/core/model/common"

const (
	KeyServiceMonitorInterval = "service_monitor_interval"

	DefaultServiceMonitorInterval = 5
	MinServiceMonitorInterval     = 1
	MaxServiceMonitorInterval     = 1440
)

// GlobalSettingModel 键值形式的全局设置
type GlobalSettingModel struct {
	common.Model
	Key         string `gorm:"column:setting_key;size:100;not null;uniqueIndex" json:"key" comment:"设置键"`
	Value       string `gorm:"column:setting_value;type:text;not null" json:"value" comment:"设置值"`
	Description string `gorm:"size:255" json:"description" comment:"描述"`
}

func (GlobalSettingModel) TableName() string {
	return "patrol_global_settings"
}
