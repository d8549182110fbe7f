package config

import "time"

// MonitorConfig 巡检执行参数
type MonitorConfig struct {
	MaxWorkers       int `yaml:"max-workers"`
	ConnectTimeout   int `yaml:"connect-timeout"`    // 秒
	CommandTimeout   int `yaml:"command-timeout"`    // 秒
	HostTimeout      int `yaml:"host-timeout"`       // 秒
	RunTimeout       int `yaml:"run-timeout"`        // 秒
	LogRetentionDays int `yaml:"log-retention-days"` // 天
	// SecretSalt 主机密码、OSS 密钥的加密盐
	SecretSalt string `yaml:"secret-salt"`
}

func (c MonitorConfig) Workers() int {
	if c.MaxWorkers <= 0 {
		return 5
	}
	return c.MaxWorkers
}

func (c MonitorConfig) ConnectTimeoutDuration() time.Duration {
	return secondsOr(c.ConnectTimeout, 10)
}

func (c MonitorConfig) CommandTimeoutDuration() time.Duration {
	return secondsOr(c.CommandTimeout, 30)
}

func (c MonitorConfig) HostTimeoutDuration() time.Duration {
	return secondsOr(c.HostTimeout, 120)
}

func (c MonitorConfig) RunTimeoutDuration() time.Duration {
	return secondsOr(c.RunTimeout, 600)
}

func (c MonitorConfig) RetentionDays() int {
	if c.LogRetentionDays <= 0 {
		return 30
	}
	return c.LogRetentionDays
}

// SchedulerConfig 调度相关参数
type SchedulerConfig struct {
	Tick           int    `yaml:"tick"` // 秒
	MaxWorkers     int    `yaml:"max-workers"`
	CleanupCron    string `yaml:"cleanup-cron"`
	Distributed    bool   `yaml:"distributed"`
	LockKey        string `yaml:"lock-key"`
	LockTTLSeconds int    `yaml:"lock-ttl"`
}

func (c SchedulerConfig) TickDuration() time.Duration {
	return secondsOr(c.Tick, 30)
}

func (c SchedulerConfig) CleanupSpec() string {
	if c.CleanupCron == "" {
		return "0 30 3 * * *"
	}
	return c.CleanupCron
}

// ReportConfig 报告产物输出目录
type ReportConfig struct {
	Dir string `yaml:"dir"`
}

func (c ReportConfig) Directory() string {
	if c.Dir == "" {
		return "reports"
	}
	return c.Dir
}

func secondsOr(v, def int) time.Duration {
	if v <= 0 {
		v = def
	}
	return time.Duration(v) * time.Second
}
