package config

// SearchConfig 语义搜索相关配置。
type SearchConfig struct {
	// DefaultTopK 是语义搜索未显式指定 limit 时使用的默认返回条数。
	DefaultTopK int `mapstructure:"default_top_k" json:"default_top_k" yaml:"default_top_k"`
	// MaxTopK 是单次查询允许的最大返回条数上限。
	MaxTopK int `mapstructure:"max_top_k" json:"max_top_k" yaml:"max_top_k"`
}
