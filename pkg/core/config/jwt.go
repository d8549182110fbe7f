package config

type JwtConfig struct {
	AdminSecret string `yaml:"admin-secret" json:"admin-secret,omitempty"`
	// ExpireTime 小时
	ExpireTime int `yaml:"expire-time" json:"expire-time,omitempty"`
}

// AdminConfig 单管理员登录配置，密码为 bcrypt 哈希
type AdminConfig struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password-hash"`
}
