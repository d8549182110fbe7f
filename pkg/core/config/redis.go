package config

import (
	"context"
	"net"
	"strings"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	// Enabled 未启用时缓存只走本地 TinyLFU，调度锁退化为进程内锁
	Enabled  bool   `yaml:"enabled"`
	Mode     string `yaml:"mode"`
	Host     string `yaml:"host"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func InitRDB(redisConfig RedisConfig, proxyConfig ProxyConfig) *redis.Client {
	var dialer func(ctx context.Context, network, addr string) (net.Conn, error)
	if proxyConfig.Enabled {
		dialer = proxyConfig.GetContextDialer()
	}

	if redisConfig.Mode == "single" || redisConfig.Mode == "" {
		return redis.NewClient(&redis.Options{
			Addr:     redisConfig.Host,
			Password: redisConfig.Password,
			DB:       redisConfig.DB,
			Dialer:   dialer,
		})
	}

	return redis.NewFailoverClient(&redis.FailoverOptions{
		MasterName:       "mymaster",
		SentinelAddrs:    strings.Split(redisConfig.Host, ","),
		Password:         redisConfig.Password,
		SentinelPassword: redisConfig.Password,
		DB:               redisConfig.DB,
		Dialer:           dialer,
	})
}
