package config

// OssConfig OSS配置结构体
type OssConfig struct {
	Endpoint        string `yaml:"endpoint" json:"endpoint"`                 // 访问域名
	AccessKeyID     string `yaml:"access-key" json:"access_key_id"`          // 访问密钥ID
	AccessKeySecret string `yaml:"access-secret" json:"-"`                   // 访问密钥Secret
	Bucket          string `yaml:"bucket-name" json:"bucket"`                // 存储空间名称
	Region          string `yaml:"region,omitempty" json:"region,omitempty"` // 区域，为空时从 endpoint 推断
	FolderPath      string `yaml:"folder-path" json:"folder_path"`           // 对象前缀
	ExpiresHours    int    `yaml:"expires-hours" json:"expires_hours"`       // 签名链接有效期
}

// Complete 上传所需字段是否齐全
func (c OssConfig) Complete() bool {
	return c.Endpoint != "" && c.Bucket != "" && c.AccessKeyID != "" && c.AccessKeySecret != ""
}
