package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// SystemRaw 系统信息各探测项的原始输出
type SystemRaw struct {
	Hostname     string
	Uptime       string
	OSRelease    string
	Kernel       string
	Architecture string
	LoadAvg      string
	Users        string
}

// SystemInfo 主机基础信息
type SystemInfo struct {
	Hostname     string     `json:"hostname"`
	Uptime       string     `json:"uptime"`
	OS           string     `json:"os_info"`
	Kernel       string     `json:"kernel"`
	Architecture string     `json:"architecture"`
	LoadAverage  [3]float64 `json:"load_average"`
	Users        int        `json:"users"`
}

// ParseOSRelease 取 /etc/os-release 的 PRETTY_NAME，缺失时退回 NAME VERSION，再退回首行原文（如 uname -a）
func ParseOSRelease(content string) string {
	values := make(map[string]string)
	for _, line := range lines(content) {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		values[key] = strings.Trim(value, `"'`)
	}
	if name := values["PRETTY_NAME"]; name != "" {
		return name
	}
	if name := values["NAME"]; name != "" {
		return strings.TrimSpace(name + " " + values["VERSION"])
	}
	if rows := lines(content); len(rows) > 0 {
		return rows[0]
	}
	return ""
}

// ParseLoadAvg 解析 /proc/loadavg 的前三列
func ParseLoadAvg(content string) ([3]float64, error) {
	var load [3]float64
	fields := strings.Fields(content)
	if len(fields) < 3 {
		return load, parseErr(fmt.Sprintf("loadavg 字段不足: %q", content), nil)
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return load, parseErr(fmt.Sprintf("loadavg 值非法: %q", fields[i]), err)
		}
		load[i] = v
	}
	return load, nil
}

// ParseSystemInfo 汇总系统信息，能解析的字段照常填充，返回遇到的第一个解析错误
func ParseSystemInfo(raw SystemRaw) (SystemInfo, error) {
	info := SystemInfo{
		Hostname:     strings.TrimSpace(raw.Hostname),
		Uptime:       strings.TrimSpace(raw.Uptime),
		OS:           ParseOSRelease(raw.OSRelease),
		Kernel:       strings.TrimSpace(raw.Kernel),
		Architecture: strings.TrimSpace(raw.Architecture),
	}

	var firstErr error
	if strings.TrimSpace(raw.LoadAvg) != "" {
		load, err := ParseLoadAvg(raw.LoadAvg)
		if err != nil {
			firstErr = err
		} else {
			info.LoadAverage = load
		}
	}
	if users := strings.TrimSpace(raw.Users); users != "" {
		n, err := strconv.Atoi(users)
		if err != nil && firstErr == nil {
			firstErr = parseErr(fmt.Sprintf("登录用户数非法: %q", users), err)
		}
		info.Users = n
	}
	return info, firstErr
}
