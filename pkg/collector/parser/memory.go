package parser

import (
	"fmt"
	"strconv"
	"strings"
)

const bytesPerMB = 1024 * 1024

// MemoryInfo 内存详情，容量同时给出 MB 与 GB（GB = MB/1024，两位小数）
type MemoryInfo struct {
	UsagePercent float64 `json:"usage_percent"`
	TotalMB      float64 `json:"total_mb"`
	UsedMB       float64 `json:"used_mb"`
	FreeMB       float64 `json:"free_mb"`
	AvailableMB  float64 `json:"available_mb"`
	TotalGB      float64 `json:"total_gb"`
	UsedGB       float64 `json:"used_gb"`
	FreeGB       float64 `json:"free_gb"`
	AvailableGB  float64 `json:"available_gb"`
}

// ParseMemory 解析 `free -b` 的输出。
// 旧版 free 没有 available 列，此时用 free 代替。
func ParseMemory(freeOut string) (*MemoryInfo, error) {
	var header []string
	var values []string
	for _, line := range lines(freeOut) {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "total" {
			header = fields
			continue
		}
		if fields[0] == "Mem:" {
			values = fields[1:]
		}
	}
	if values == nil {
		return nil, parseErr("free 输出中没有 Mem 行", nil)
	}
	if header == nil {
		header = []string{"total", "used", "free", "shared", "buff/cache", "available"}
	}

	column := func(name string) (float64, bool, error) {
		for i, h := range header {
			if h != name {
				continue
			}
			if i >= len(values) {
				return 0, false, nil
			}
			v, err := strconv.ParseFloat(values[i], 64)
			if err != nil {
				return 0, false, parseErr(fmt.Sprintf("free %s 列非法: %q", name, values[i]), err)
			}
			return v, true, nil
		}
		return 0, false, nil
	}

	total, ok, err := column("total")
	if err != nil {
		return nil, err
	}
	if !ok || total <= 0 {
		return nil, parseErr("free 输出缺少有效的 total 列", nil)
	}
	used, ok, err := column("used")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, parseErr("free 输出缺少 used 列", nil)
	}
	free, _, err := column("free")
	if err != nil {
		return nil, err
	}
	available, ok, err := column("available")
	if err != nil {
		return nil, err
	}
	if !ok {
		available = free
	}

	info := &MemoryInfo{
		UsagePercent: round2(used / total * 100),
		TotalMB:      round2(total / bytesPerMB),
		UsedMB:       round2(used / bytesPerMB),
		FreeMB:       round2(free / bytesPerMB),
		AvailableMB:  round2(available / bytesPerMB),
	}
	info.TotalGB = round2(info.TotalMB / 1024)
	info.UsedGB = round2(info.UsedMB / 1024)
	info.FreeGB = round2(info.FreeMB / 1024)
	info.AvailableGB = round2(info.AvailableMB / 1024)
	return info, nil
}
