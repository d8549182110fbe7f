package config

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/net/proxy"
)

// ProxyConfig SOCKS5 代理配置，启用后 SSH 巡检与 webhook 推送都经由代理出网
type ProxyConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"` // 可选
	Password string `yaml:"password" json:"password"` // 可选
}

func directDialer() *net.Dialer {
	return &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
}

// GetDialer 获取配置好的 SOCKS5 dialer，未启用或创建失败时返回直连 dialer
func (p ProxyConfig) GetDialer() proxy.Dialer {
	if !p.Enabled {
		return directDialer()
	}

	address := net.JoinHostPort(p.Host, fmt.Sprint(p.Port))

	var auth *proxy.Auth
	if p.Username != "" && p.Password != "" {
		auth = &proxy.Auth{
			User:     p.Username,
			Password: p.Password,
		}
	}

	dialer, err := proxy.SOCKS5("tcp", address, auth, proxy.Direct)
	if err != nil {
		return directDialer()
	}
	return dialer
}

// GetContextDialer 获取支持 context 的拨号函数，用于 SSH 连接
func (p ProxyConfig) GetContextDialer() func(ctx context.Context, network, address string) (net.Conn, error) {
	dialer := p.GetDialer()
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(ctx context.Context, network, address string) (net.Conn, error) {
		return dialer.Dial(network, address)
	}
}

// GetFastDial 获取 fasthttp 使用的拨号函数，未启用代理时返回 nil 使用默认拨号
func (p ProxyConfig) GetFastDial() func(addr string) (net.Conn, error) {
	if !p.Enabled {
		return nil
	}
	dialer := p.GetDialer()
	return func(addr string) (net.Conn, error) {
		return dialer.Dial("tcp", addr)
	}
}
