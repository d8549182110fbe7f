package start

import (
	"fmt"
	"net"
	"time"

	"hostpatrol/pkg/core/config"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/core/security"

	"github.com/bsm/redislock"
	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type Config struct {
	AppName   string                 `yaml:"app-name"`
	Env       string                 `yaml:"env"`
	Host      string                 `yaml:"host"`
	Port      int                    `yaml:"port"`
	Log       config.LogConfig       `yaml:"log"`
	Jwt       config.JwtConfig       `yaml:"jwt"`
	Admin     config.AdminConfig     `yaml:"admin"`
	Redis     config.RedisConfig     `yaml:"redis"`
	Database  config.Database        `yaml:"db"`
	Proxy     config.ProxyConfig     `yaml:"proxy"`
	Monitor   config.MonitorConfig   `yaml:"monitor"`
	Scheduler config.SchedulerConfig `yaml:"scheduler"`
	Report    config.ReportConfig    `yaml:"report"`
	Server    config.ServerConfig    `yaml:"server"`
	// StaticDir 前端页面目录，为空时不托管
	StaticDir string `yaml:"static-dir"`
}

type Configures struct {
	Config    Config
	Logger    *logger.Log
	AdminAuth *security.AdminAuth
}

// ParseConfig 解析 YAML 配置
func ParseConfig(file []byte, env string) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return cfg, err
	}
	cfg.Env = env
	if cfg.Port == 0 {
		cfg.Port = 5000
	}
	if cfg.AppName == "" {
		cfg.AppName = "hostpatrol"
	}
	return cfg, nil
}

func NewConfigures(file []byte, env string) *Configures {
	cfg, err := ParseConfig(file, env)
	if err != nil {
		panic(fmt.Sprintf("读取文件信息失败，因为%v", err))
	}
	cfg.Host, _ = getLocalIP()

	c := &Configures{
		Config: cfg,
		Logger: logger.InitLogger(cfg.Log),
	}
	c.AdminAuth = c.EnableAdminAuth()

	return c
}

// getLocalIP 获取本机IP地址（优先获取内网IP）
func getLocalIP() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}

	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil && ipnet.IP.IsPrivate() {
				return ipnet.IP.String(), nil
			}
		}
	}

	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String(), nil
			}
		}
	}

	return "127.0.0.1", nil
}

func (c *Configures) EnableAdminAuth() *security.AdminAuth {
	expire := time.Duration(c.Config.Jwt.ExpireTime) * time.Hour
	return security.NewAdminAuth([]byte(c.Config.Jwt.AdminSecret), expire)
}

// EnableRedis 未启用时返回 nil
func (c *Configures) EnableRedis() *redis.Client {
	if !c.Config.Redis.Enabled {
		return nil
	}
	return config.InitRDB(c.Config.Redis, c.Config.Proxy)
}

// EnableCache rdb 为 nil 时仅使用本地缓存
func (c *Configures) EnableCache(rdb *redis.Client) *cache.Cache {
	opts := &cache.Options{
		LocalCache: cache.NewTinyLFU(1000, time.Minute),
	}
	if rdb != nil {
		opts.Redis = rdb
	}
	return cache.New(opts)
}

// EnableBlacklist 注销令牌黑名单，本地缓存有效期与令牌有效期一致
func (c *Configures) EnableBlacklist(rdb *redis.Client) security.Blacklist {
	expire := time.Duration(c.Config.Jwt.ExpireTime) * time.Hour
	if expire <= 0 {
		expire = 24 * time.Hour
	}
	opts := &cache.Options{
		LocalCache: cache.NewTinyLFU(10000, expire),
	}
	if rdb != nil {
		opts.Redis = rdb
	}
	return security.NewCacheBlacklist(cache.New(opts))
}

func (c *Configures) EnableLocker(rdb *redis.Client) *redislock.Client {
	if rdb == nil {
		return nil
	}
	return redislock.New(rdb)
}

func (c *Configures) EnableDatabase() *gorm.DB {
	db, err := config.InitDatabase(c.Config.Database, c.Config.Proxy)
	if err != nil {
		c.Logger.WithField("driver", c.Config.Database.Driver).WithErr(err).Panic("failed connect database")
	}
	c.Logger.WithField("driver", c.Config.Database.Driver).Info("connect database success")
	return db
}
