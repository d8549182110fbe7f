package config

type LogConfig struct {
	Level string `yaml:"level"`
	// File 为空时只输出到标准输出
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max-size"` // MB
	MaxBackups int    `yaml:"max-backups"`
	MaxAge     int    `yaml:"max-age"` // 天
	Compress   bool   `yaml:"compress"`
}

func (c LogConfig) MaxSizeOrDefault() int {
	if c.MaxSize <= 0 {
		return 100
	}
	return c.MaxSize
}
