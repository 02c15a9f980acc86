package dto

// SemanticSearchRequest 定义语义搜索的请求数据结构
// - Limit 为 0 表示未指定，由服务层回填配置的默认 top_k。
type SemanticSearchRequest struct {
	Query string `json:"query" form:"query" binding:"required,max=512"`        // 查询文本，必填
	Limit int    `json:"limit" form:"limit" binding:"omitempty,gte=1,lte=100"` // 最大返回条数，可选
}

// BulkSearchRequest 定义批量语义搜索的请求数据结构
// - queries 以重复的 query 参数形式传入: /bulk?queries=a&queries=b
type BulkSearchRequest struct {
	Queries       []string `json:"queries" form:"queries" binding:"required,min=1,max=20,dive,required,max=512"` // 查询文本列表
	LimitPerQuery int      `json:"limit_per_query" form:"limit_per_query" binding:"omitempty,gte=1,lte=20"`      // 每个查询的最大返回条数
}
