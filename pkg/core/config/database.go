package config

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// 支持的数据库驱动
const (
	DriverSqlite   = "sqlite"
	DriverMysql    = "mysql"
	DriverPostgres = "postgres"
)

type Database struct {
	Driver   string `yaml:"driver" json:"driver,omitempty"`
	Host     string `yaml:"host" json:"host,omitempty"`
	Port     int64  `yaml:"port" json:"port,omitempty"`
	User     string `yaml:"user" json:"user,omitempty"`
	Password string `yaml:"password" json:"password,omitempty"`
	DbName   string `yaml:"db-name" json:"db-name,omitempty"`
	// Path sqlite 数据文件路径
	Path  string `yaml:"path" json:"path,omitempty"`
	Debug bool   `yaml:"debug" json:"debug,omitempty"`
}

func gormConfig(database Database) *gorm.Config {
	cfg := &gorm.Config{}
	if !database.Debug {
		cfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}
	return cfg
}

// InitDatabase 按 driver 打开数据库，缺省使用 sqlite
func InitDatabase(database Database, proxyConfig ProxyConfig) (*gorm.DB, error) {
	switch database.Driver {
	case DriverMysql:
		return InitMysql(database, proxyConfig)
	case DriverPostgres:
		return InitPg(database, proxyConfig)
	case "", DriverSqlite:
		return InitSqlite(database)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", database.Driver)
	}
}

func InitSqlite(database Database) (*gorm.DB, error) {
	path := database.Path
	if path == "" {
		path = "data/hostpatrol.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on&_busy_timeout=5000"), gormConfig(database))
	if err != nil {
		return nil, err
	}

	// sqlite 单写者，限制连接数避免 database is locked
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func InitPg(database Database, proxyConfig ProxyConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable password=%s",
		database.Host, database.Port, database.User, database.DbName, database.Password)

	db, err := gorm.Open(postgres.Open(dsn), gormConfig(database))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// PostgreSQL 驱动不支持自定义 dialer，代理需要在网络层配置
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func InitMysql(database Database, proxyConfig ProxyConfig) (*gorm.DB, error) {
	network := "tcp"
	if proxyConfig.Enabled {
		// 注册经 SOCKS 代理的 dialer
		network = fmt.Sprintf("proxy_%d", time.Now().UnixNano())
		dialer := proxyConfig.GetDialer()
		mysqldriver.RegisterDialContext(network, func(ctx context.Context, addr string) (net.Conn, error) {
			return dialer.Dial("tcp", addr)
		})
	}

	dsn := fmt.Sprintf("%s:%s@%s(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		database.User, database.Password, network, database.Host, database.Port, database.DbName)

	return gorm.Open(mysql.Open(dsn), gormConfig(database))
}
