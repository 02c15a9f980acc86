package vo

// SearchResultItemVO 单条搜索命中。
// - 搜索按 Caption 粒度排序返回：同一张图片的多条描述都排进 top_k 时，
//   该图片会出现多次（镜像底层 distance 排序的 join，而非按图片分组后的结果）。
// - Distance 为查询向量与命中描述向量的 L2 距离，越小越相似。
type SearchResultItemVO struct {
	ImageID    uint64  `json:"image_id"`
	ImageKey   string  `json:"image_key"`
	Distance   float64 `json:"distance"`
	PreviewURL string  `json:"preview_url"`
}

// SemanticSearchVO 语义搜索结果。
type SemanticSearchVO struct {
	Query   string               `json:"query"`
	Count   int                  `json:"count"`
	Results []SearchResultItemVO `json:"results"`
}

// BulkSearchVO 批量搜索结果，按原始查询文本索引。
type BulkSearchVO struct {
	Results map[string]*SemanticSearchVO `json:"results"`
}
