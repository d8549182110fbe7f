package parser

import (
	"strconv"
)

// Process ps aux 输出中的一个进程
type Process struct {
	PID     int     `json:"pid"`
	CPU     float64 `json:"cpu"`
	Memory  float64 `json:"memory"`
	Command string  `json:"command"`
}

// ParseProcesses 解析 `ps aux | grep <name> | grep -v grep` 的输出。
// 字段不足 11 列的行忽略；空输出表示没有匹配进程。
func ParseProcesses(psOut string) []Process {
	processes := make([]Process, 0)
	for _, line := range lines(psOut) {
		fields := splitFields(line, 11)
		if len(fields) < 11 {
			continue
		}
		pid, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		cpu, _ := strconv.ParseFloat(fields[2], 64)
		mem, _ := strconv.ParseFloat(fields[3], 64)
		processes = append(processes, Process{
			PID:     pid,
			CPU:     cpu,
			Memory:  mem,
			Command: fields[10],
		})
	}
	return processes
}
