package config

// MinioConfig MinIO 对象存储配置。
// - 对象存储只保存图片原始字节，对象键即图片的内容哈希键（content key）。
type MinioConfig struct {
	Endpoint   string `mapstructure:"endpoint" json:"endpoint" yaml:"endpoint"`       // host:port，不含 scheme
	AccessKey  string `mapstructure:"access_key" json:"access_key" yaml:"access_key"` // 访问密钥 ID
	SecretKey  string `mapstructure:"secret_key" json:"secret_key" yaml:"secret_key"` // 访问密钥
	BucketName string `mapstructure:"bucket_name" json:"bucket_name" yaml:"bucket_name"`
	UseSSL     bool   `mapstructure:"use_ssl" json:"use_ssl" yaml:"use_ssl"`
}
