package config

// ServerConfig 被巡检主机的启动种子配置
type ServerConfig struct {
	Bootstrap []BootstrapServer `yaml:"bootstrap"`
}

// BootstrapServer 启动时若同名主机不存在则写入
type BootstrapServer struct {
	Name           string `yaml:"name"`
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	AuthType       string `yaml:"auth-type"`        // password / privatekey
	Password       string `yaml:"password"`         // 明文，写入时加密
	PrivateKeyPath string `yaml:"private-key-path"` // 私钥文件路径
	Description    string `yaml:"description"`
}
