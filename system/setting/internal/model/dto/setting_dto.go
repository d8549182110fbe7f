package dto

// ServiceSettings 服务监控设置
type ServiceSettings struct {
	MonitorInterval int `json:"monitor_interval" validate:"required,min=1,max=1440" comment:"监控间隔(分钟)"`
}
