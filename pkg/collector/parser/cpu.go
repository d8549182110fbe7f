package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCPU 从 `top -bn1` 的输出中解析 CPU 使用率（100 - idle）。
// 同时兼容 "%Cpu(s):  3.1 us, ... 95.5 id" 与旧版 "Cpu(s):  3.1%us, ... 95.5%id" 两种格式。
func ParseCPU(topOut string) (float64, error) {
	for _, line := range lines(topOut) {
		if !strings.Contains(line, "Cpu(s)") {
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			return 0, parseErr(fmt.Sprintf("无法识别的 CPU 行: %q", line), nil)
		}
		for _, item := range strings.Split(line[idx+1:], ",") {
			item = strings.TrimSpace(item)
			if !strings.HasSuffix(item, "id") {
				continue
			}
			value := strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(item, "id"), "%"))
			idle, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return 0, parseErr(fmt.Sprintf("CPU 空闲值非法: %q", item), err)
			}
			return clampPercent(100 - idle), nil
		}
		return 0, parseErr(fmt.Sprintf("CPU 行缺少 id 字段: %q", line), nil)
	}
	return 0, parseErr("top 输出中没有 Cpu(s) 行", nil)
}

// ParseCPUFromVmstat 从 `vmstat 1 2` 的输出中解析 CPU 使用率，取最后一行采样的 id 列
func ParseCPUFromVmstat(out string) (float64, error) {
	rows := lines(out)
	idCol := -1
	for _, line := range rows {
		fields := strings.Fields(line)
		for i, f := range fields {
			if f == "id" {
				idCol = i
				break
			}
		}
		if idCol >= 0 {
			break
		}
	}
	if idCol < 0 || len(rows) == 0 {
		return 0, parseErr("vmstat 输出缺少 id 列", nil)
	}

	last := strings.Fields(rows[len(rows)-1])
	if len(last) <= idCol {
		return 0, parseErr(fmt.Sprintf("vmstat 采样行字段不足: %q", rows[len(rows)-1]), nil)
	}
	idle, err := strconv.ParseFloat(last[idCol], 64)
	if err != nil {
		return 0, parseErr(fmt.Sprintf("vmstat id 值非法: %q", last[idCol]), err)
	}
	return clampPercent(100 - idle), nil
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return round2(v)
}
