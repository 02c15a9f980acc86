package config

import "github.com/Xushengqwer/go-common/config"

type ImageSearchConfig struct {
	ZapConfig       config.ZapConfig     `mapstructure:"zapConfig" json:"zapConfig" yaml:"zapConfig"`
	GormLogConfig   config.GormLogConfig `mapstructure:"gormLogConfig" json:"gormLogConfig" yaml:"gormLogConfig"`
	ServerConfig    config.ServerConfig  `mapstructure:"serverConfig" json:"serverConfig" yaml:"serverConfig"`
	TracerConfig    config.TracerConfig  `mapstructure:"tracerConfig" json:"tracerConfig" yaml:"tracerConfig"`
	PostgresConfig  PostgresConfig       `mapstructure:"postgresConfig" json:"postgresConfig" yaml:"postgresConfig"`
	RedisConfig     RedisConfig          `mapstructure:"redisConfig" json:"redisConfig" yaml:"redisConfig"`
	KafkaConfig     KafkaConfig          `mapstructure:"kafkaConfig" json:"kafkaConfig" yaml:"kafkaConfig"`
	MinioConfig     MinioConfig          `mapstructure:"imageBlobMinioConfig" json:"imageBlobMinioConfig" yaml:"imageBlobMinioConfig"`
	EmbeddingConfig EmbeddingConfig      `mapstructure:"embeddingConfig" json:"embeddingConfig" yaml:"embeddingConfig"`
	SearchConfig    SearchConfig         `mapstructure:"searchConfig" json:"searchConfig" yaml:"searchConfig"`
}
