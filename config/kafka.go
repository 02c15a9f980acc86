package config

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers" json:"brokers" yaml:"brokers"`
	Topics  Topics   `mapstructure:"topics" json:"topics" yaml:"topics"`
}

type Topics struct {
	ImageIngested string `mapstructure:"imageIngested" yaml:"imageIngested"` // 图片入库完成事件主题
}
