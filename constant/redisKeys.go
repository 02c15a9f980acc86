package constant

import "time"

// Redis Key 相关常量 (导出)
const (
	// SearchCacheKeyPrefix 是语义搜索结果缓存的 Key 前缀。
	// 每个 (查询文本, top_k) 组合会有一个对应的 String 类型的 Key。
	// 查询文本先做 SHA-1 摘要再拼入 Key，避免超长或含特殊字符的 Key。
	// 示例 Key: "img_search_cache:9f2c...:10"
	// Redis 类型: String (存储 JSON 序列化后的搜索结果列表)
	SearchCacheKeyPrefix = "img_search_cache:"

	// SearchCacheTTL 是单条搜索结果缓存的过期时间。
	// 搜索缓存在每次成功入库新 Caption 时会被整体清空（见 SearchCache.InvalidateAll），
	// TTL 只是兜底，防止清空失败后缓存长期滞留脏数据。
	SearchCacheTTL = 10 * time.Minute

	// SearchCacheScanBatchSize 是清空搜索缓存时 SCAN 命令的 COUNT 建议值。
	SearchCacheScanBatchSize int64 = 500
)
