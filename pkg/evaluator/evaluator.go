// Package evaluator 把采集到的指标与阈值比较，产出告警并推导主机巡检状态。
package evaluator

import (
	"fmt"
	"strconv"

	"hostpatrol/pkg/collector/parser"
	errorc "hostpatrol/pkg/core/err"
)

type AlertType string

const (
	AlertCPU    AlertType = "cpu"
	AlertMemory AlertType = "memory"
	AlertDisk   AlertType = "disk"
)

const LevelWarning = "warning"

// Status 主机一次巡检的结果
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusFailed  Status = "failed"
)

const (
	DefaultThreshold = 80
	minThreshold     = 1
	maxThreshold     = 100
)

// Thresholds 三项使用率上限（百分比）
type Thresholds struct {
	CPU    float64 `json:"cpu_threshold"`
	Memory float64 `json:"memory_threshold"`
	Disk   float64 `json:"disk_threshold"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{CPU: DefaultThreshold, Memory: DefaultThreshold, Disk: DefaultThreshold}
}

// Validate 每项必须位于 [1,100]
func (t Thresholds) Validate() error {
	check := func(name string, v float64) error {
		if v < minThreshold || v > maxThreshold {
			return errorc.NewErrorBuilder("Evaluator").
				New(fmt.Sprintf("%s阈值必须在%d-%d之间", name, minThreshold, maxThreshold), nil).Config()
		}
		return nil
	}
	if err := check("CPU", t.CPU); err != nil {
		return err
	}
	if err := check("内存", t.Memory); err != nil {
		return err
	}
	return check("磁盘", t.Disk)
}

// Alert 一条超限告警，磁盘告警额外带文件系统与挂载点
type Alert struct {
	Type       AlertType `json:"type"`
	Level      string    `json:"level"`
	Message    string    `json:"message"`
	Value      float64   `json:"value"`
	Threshold  float64   `json:"threshold"`
	Filesystem string    `json:"filesystem,omitempty"`
	MountedOn  string    `json:"mounted_on,omitempty"`
}

// Metrics 参与评估的指标，nil 表示该项未能采集
type Metrics struct {
	CPU    *float64
	Memory *float64
	Disks  []parser.DiskRow
}

// Evaluate 按 cpu、memory、disk 的顺序产出告警，严格大于阈值才告警，磁盘按 df 顺序逐行判断
func Evaluate(m Metrics, t Thresholds) []Alert {
	alerts := make([]Alert, 0)
	if m.CPU != nil && *m.CPU > t.CPU {
		alerts = append(alerts, Alert{
			Type:      AlertCPU,
			Level:     LevelWarning,
			Message:   fmt.Sprintf("CPU使用率过高: %.2f%% (阈值: %s%%)", *m.CPU, formatThreshold(t.CPU)),
			Value:     *m.CPU,
			Threshold: t.CPU,
		})
	}
	if m.Memory != nil && *m.Memory > t.Memory {
		alerts = append(alerts, Alert{
			Type:      AlertMemory,
			Level:     LevelWarning,
			Message:   fmt.Sprintf("内存使用率过高: %.2f%% (阈值: %s%%)", *m.Memory, formatThreshold(t.Memory)),
			Value:     *m.Memory,
			Threshold: t.Memory,
		})
	}
	for _, disk := range m.Disks {
		if disk.UsePercent <= t.Disk {
			continue
		}
		alerts = append(alerts, Alert{
			Type:       AlertDisk,
			Level:      LevelWarning,
			Message:    fmt.Sprintf("磁盘 %s 使用率过高: %.2f%% (阈值: %s%%)", disk.MountedOn, disk.UsePercent, formatThreshold(t.Disk)),
			Value:      disk.UsePercent,
			Threshold:  t.Disk,
			Filesystem: disk.Filesystem,
			MountedOn:  disk.MountedOn,
		})
	}
	return alerts
}

// DeriveStatus 未连接为 failed，有告警为 warning，否则 success
func DeriveStatus(connected bool, alerts []Alert) Status {
	switch {
	case !connected:
		return StatusFailed
	case len(alerts) > 0:
		return StatusWarning
	default:
		return StatusSuccess
	}
}

func formatThreshold(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
