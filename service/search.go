package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Xushengqwer/go-common/core"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/image_search_service/config"
	"github.com/Xushengqwer/image_search_service/dependencies"
	"github.com/Xushengqwer/image_search_service/models/vo"
	"github.com/Xushengqwer/image_search_service/myErrors"
	"github.com/Xushengqwer/image_search_service/repo/postgres"
	myredis "github.com/Xushengqwer/image_search_service/repo/redis"
)

// ImagePreviewURLPrefix 是搜索结果中图片预览地址的路径前缀。
// 与路由注册的 GET /api/v1/images/view/:image_key 保持一致。
const ImagePreviewURLPrefix = "/api/v1/images/view/"

// SearchService 定义了语义搜索的业务流程接口。
type SearchService interface {
	// SemanticSearch 对查询文本做向量近邻检索。
	// - topK <= 0 使用配置的默认值；超过配置上限视为无效输入。
	// - 结果按距离升序，以描述为粒度（同一图片可出现多次）。
	// - 空库返回空结果，不是错误。
	SemanticSearch(ctx context.Context, query string, topK int) (*vo.SemanticSearchVO, error)

	// BulkSearch 对一组查询逐个执行语义搜索。
	// - 任一查询失败则整批失败（部分结果对调用方没有意义）。
	BulkSearch(ctx context.Context, queries []string, topKPerQuery int) (*vo.BulkSearchVO, error)
}

// searchService 是 SearchService 接口的具体实现。
type searchService struct {
	captionRepo postgres.CaptionRepository
	embedder    dependencies.TextEmbedder
	searchCache myredis.SearchCache
	searchCfg   appConfig.SearchConfig
	logger      *core.ZapLogger
}

// NewSearchService 是 searchService 的构造函数，通过依赖注入初始化服务实例。
func NewSearchService(
	captionRepo postgres.CaptionRepository,
	embedder dependencies.TextEmbedder,
	searchCache myredis.SearchCache,
	searchCfg appConfig.SearchConfig,
	logger *core.ZapLogger,
) SearchService {
	return &searchService{
		captionRepo: captionRepo,
		embedder:    embedder,
		searchCache: searchCache,
		searchCfg:   searchCfg,
		logger:      logger,
	}
}

// resolveTopK 把调用方传入的 topK 规整为有效值。
// 0 或负值回填默认值；超出上限按无效输入拒绝，不做静默截断。
func (s *searchService) resolveTopK(topK int) (int, error) {
	if topK <= 0 {
		return s.searchCfg.DefaultTopK, nil
	}
	if s.searchCfg.MaxTopK > 0 && topK > s.searchCfg.MaxTopK {
		return 0, fmt.Errorf("%w: top_k=%d 超过上限 %d", myErrors.ErrInvalidInput, topK, s.searchCfg.MaxTopK)
	}
	return topK, nil
}

// SemanticSearch 实现语义搜索流水线：缓存 -> 向量化 -> 近邻检索 -> 回填缓存。
func (s *searchService) SemanticSearch(ctx context.Context, query string, topK int) (*vo.SemanticSearchVO, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: 查询文本为空", myErrors.ErrInvalidInput)
	}

	resolvedTopK, err := s.resolveTopK(topK)
	if err != nil {
		return nil, err
	}

	// 1. 查缓存。命中直接返回，未命中回源；缓存故障按未命中处理。
	cached, err := s.searchCache.GetSearchResults(ctx, query, resolvedTopK)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, myErrors.ErrCacheMiss) {
		s.logger.Warn("读取搜索缓存异常，回源检索", zap.Error(err))
	}

	// 2. 查询文本向量化。与入库用同一个模型，否则距离不可比。
	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("查询文本向量化失败", zap.Error(err))
		return nil, err
	}

	// 3. 数据库近邻检索。
	hits, err := s.captionRepo.SearchByEmbedding(ctx, pgvector.NewVector(embedding), resolvedTopK)
	if err != nil {
		return nil, err
	}

	results := make([]vo.SearchResultItemVO, 0, len(hits))
	for _, hit := range hits {
		results = append(results, vo.SearchResultItemVO{
			ImageID:    hit.ImageID,
			ImageKey:   hit.ImageKey,
			Distance:   hit.Distance,
			PreviewURL: ImagePreviewURLPrefix + hit.ImageKey,
		})
	}

	result := &vo.SemanticSearchVO{
		Query:   query,
		Count:   len(results),
		Results: results,
	}

	// 4. 回填缓存，尽力而为。
	if err := s.searchCache.SetSearchResults(ctx, query, resolvedTopK, result); err != nil {
		s.logger.Warn("写入搜索缓存失败", zap.Error(err))
	}

	return result, nil
}

// BulkSearch 实现批量语义搜索。
// 逐个串行执行：向量推理本身是串行的（会话互斥），并发在这里没有收益。
func (s *searchService) BulkSearch(ctx context.Context, queries []string, topKPerQuery int) (*vo.BulkSearchVO, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: 查询列表为空", myErrors.ErrInvalidInput)
	}

	bulk := &vo.BulkSearchVO{
		Results: make(map[string]*vo.SemanticSearchVO, len(queries)),
	}

	for _, query := range queries {
		result, err := s.SemanticSearch(ctx, query, topKPerQuery)
		if err != nil {
			return nil, fmt.Errorf("批量搜索中查询 %q 失败: %w", query, err)
		}
		bulk.Results[query] = result
	}

	return bulk, nil
}
