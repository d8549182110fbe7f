// Package tracker 维护服务进程状态及首次异常时间。
package tracker

import (
	"time"
)

// State 服务状态
type State string

const (
	StateRunning State = "running"
	StateStopped State = "stopped"
	StateError   State = "error"
	StateUnknown State = "unknown"
)

// Parse 把持久化的字符串还原为状态，无法识别时为 unknown
func Parse(s string) State {
	switch State(s) {
	case StateRunning, StateStopped, StateError:
		return State(s)
	default:
		return StateUnknown
	}
}

// Failing stopped 与 error 同属异常
func (s State) Failing() bool {
	return s == StateStopped || s == StateError
}

// Probe 一次进程探测的结果，Err 非空表示无法判断
type Probe struct {
	Count int
	Err   error
}

type Transition struct {
	State          State
	FirstErrorTime *time.Time
	// Entered 状态发生了变化
	Entered bool
}

// Alerting 监控中且处于异常状态
func (t Transition) Alerting() bool {
	return t.State.Failing()
}

// Next 根据上一状态与本次探测计算新状态。
// 从非异常状态进入 stopped/error 时记录 now 为首次异常时间；
// 异常状态之间切换或持续异常时保留原时间；恢复 running 时清空。
// 未启用监控的服务恒为 unknown，不参与告警。
func Next(prev State, firstErr *time.Time, probe Probe, monitoring bool, now time.Time) Transition {
	var next State
	switch {
	case !monitoring:
		next = StateUnknown
	case probe.Err != nil:
		next = StateError
	case probe.Count > 0:
		next = StateRunning
	default:
		next = StateStopped
	}

	t := Transition{State: next, Entered: next != prev}
	if next.Failing() {
		if prev.Failing() && firstErr != nil {
			t.FirstErrorTime = firstErr
		} else {
			at := now
			t.FirstErrorTime = &at
		}
	}
	return t
}

// DisplayKind 页面展示用的封闭状态集合
type DisplayKind int

const (
	DisplayRunning DisplayKind = iota
	DisplayStopped
	DisplayError
	DisplayUnknown
	DisplayDisabled
)

type DisplayState struct {
	Kind  DisplayKind `json:"-"`
	Label string      `json:"label"`
	Class string      `json:"class"`
}

var displays = map[DisplayKind]DisplayState{
	DisplayRunning:  {Kind: DisplayRunning, Label: "正常", Class: "bg-success"},
	DisplayStopped:  {Kind: DisplayStopped, Label: "停止", Class: "bg-warning"},
	DisplayError:    {Kind: DisplayError, Label: "错误", Class: "bg-danger"},
	DisplayUnknown:  {Kind: DisplayUnknown, Label: "未知", Class: "bg-info"},
	DisplayDisabled: {Kind: DisplayDisabled, Label: "未启用", Class: "bg-secondary"},
}

// Display 把 {状态, 是否监控} 映射到展示状态
func Display(status State, isMonitoring bool) DisplayState {
	if !isMonitoring {
		return displays[DisplayDisabled]
	}
	switch status {
	case StateRunning:
		return displays[DisplayRunning]
	case StateStopped:
		return displays[DisplayStopped]
	case StateError:
		return displays[DisplayError]
	case StateUnknown:
		return displays[DisplayUnknown]
	default:
		return displays[DisplayUnknown]
	}
}
