package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// DiskRow df 输出中的一个文件系统
type DiskRow struct {
	Filesystem string  `json:"filesystem"`
	Size       string  `json:"size"`
	Used       string  `json:"used"`
	Available  string  `json:"available"`
	UsePercent float64 `json:"use_percent"`
	MountedOn  string  `json:"mounted_on"`
}

// ParseDisk 解析 `df -hP` 输出，只保留 /dev/ 开头的行，顺序与 df 一致。
// 使用率无法解析的行被跳过，并通过返回的错误报告；其余行照常返回。
func ParseDisk(dfOut string) ([]DiskRow, error) {
	rows := make([]DiskRow, 0)
	var bad []string
	for _, line := range lines(dfOut) {
		if !strings.HasPrefix(line, "/dev/") {
			continue
		}
		fields := splitFields(line, 6)
		if len(fields) < 6 {
			bad = append(bad, line)
			continue
		}
		percent, err := strconv.ParseFloat(strings.TrimSuffix(fields[4], "%"), 64)
		if err != nil {
			bad = append(bad, line)
			continue
		}
		rows = append(rows, DiskRow{
			Filesystem: fields[0],
			Size:       fields[1],
			Used:       fields[2],
			Available:  fields[3],
			UsePercent: percent,
			MountedOn:  fields[5],
		})
	}
	if len(bad) > 0 {
		return rows, parseErr(fmt.Sprintf("df 输出中有 %d 行无法解析: %q", len(bad), bad), nil)
	}
	return rows, nil
}
