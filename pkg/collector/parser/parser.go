// Package parser 把远程探测命令的原始输出解析为结构化指标。
// 所有函数都是纯函数，解析失败返回 Parse 类错误，由调用方降级为空字段。
package parser

import (
	"bufio"
	"math"
	"strings"

	errorc "hostpatrol/pkg/core/err"
)

var errBuilder = errorc.NewErrorBuilder("Parser")

func parseErr(msg string, err error) *errorc.Error {
	return errBuilder.New(msg, err).Parse()
}

// round2 保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// lines 返回去掉首尾空白后的非空行
func lines(out string) []string {
	var result []string
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			result = append(result, line)
		}
	}
	return result
}

// splitFields 按空白切分，最多 n 段，最后一段保留原始空白
func splitFields(line string, n int) []string {
	var parts []string
	rest := strings.TrimSpace(line)
	for len(parts) < n-1 && rest != "" {
		idx := strings.IndexAny(rest, " \t")
		if idx < 0 {
			break
		}
		parts = append(parts, rest[:idx])
		rest = strings.TrimLeft(rest[idx:], " \t")
	}
	if rest != "" {
		parts = append(parts, rest)
	}
	return parts
}
