package dto

// UpdateThresholdRequest 更新阈值，三项均为百分比
type UpdateThresholdRequest struct {
	CPUThreshold    float64 `json:"cpu_threshold" validate:"required,min=1,max=100" comment:"CPU阈值"`
	MemoryThreshold float64 `json:"memory_threshold" validate:"required,min=1,max=100" comment:"内存阈值"`
	DiskThreshold   float64 `json:"disk_threshold" validate:"required,min=1,max=100" comment:"磁盘阈值"`
}
