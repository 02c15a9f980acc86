package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appConfig "github.com/Xushengqwer/image_search_service/config"
	"github.com/Xushengqwer/image_search_service/models/vo"
	"github.com/Xushengqwer/image_search_service/myErrors"
	"github.com/Xushengqwer/image_search_service/repo/postgres"
)

type searchHarness struct {
	captionRepo *fakeCaptionRepo
	embedder    *fakeEmbedder
	cache       *fakeSearchCache
	svc         SearchService
}

func newSearchHarness(t *testing.T) *searchHarness {
	h := &searchHarness{
		captionRepo: newFakeCaptionRepo(),
		embedder:    &fakeEmbedder{},
		cache:       newFakeSearchCache(),
	}
	cfg := appConfig.SearchConfig{DefaultTopK: 10, MaxTopK: 100}
	h.svc = NewSearchService(h.captionRepo, h.embedder, h.cache, cfg, newTestLogger(t))
	return h
}

func TestSemanticSearch_InvalidInput(t *testing.T) {
	h := newSearchHarness(t)

	// 空查询。
	_, err := h.svc.SemanticSearch(context.Background(), "", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, myErrors.ErrInvalidInput)

	// 纯空白查询。
	_, err = h.svc.SemanticSearch(context.Background(), "   ", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, myErrors.ErrInvalidInput)

	// 超过上限的 topK。
	_, err = h.svc.SemanticSearch(context.Background(), "cat", 101)
	require.Error(t, err)
	assert.ErrorIs(t, err, myErrors.ErrInvalidInput)
}

func TestSemanticSearch_DefaultTopK(t *testing.T) {
	h := newSearchHarness(t)

	_, err := h.svc.SemanticSearch(context.Background(), "cat", 0)
	require.NoError(t, err)
	// limit 未指定时回填配置的默认值。
	assert.Equal(t, 10, h.captionRepo.lastTopK)
}

func TestSemanticSearch_ResultsPassthrough(t *testing.T) {
	h := newSearchHarness(t)
	h.captionRepo.searchHits = []*postgres.SearchHit{
		{ImageID: 1, ImageKey: "aaa.jpg", Distance: 0.10},
		{ImageID: 2, ImageKey: "bbb.png", Distance: 0.25},
		// 同一图片的第二条描述也各自命中。
		{ImageID: 1, ImageKey: "aaa.jpg", Distance: 0.40},
	}

	result, err := h.svc.SemanticSearch(context.Background(), "a cat", 5)
	require.NoError(t, err)

	assert.Equal(t, "a cat", result.Query)
	assert.Equal(t, 3, result.Count)
	require.Len(t, result.Results, 3)

	// 距离升序原样透传。
	assert.Equal(t, uint64(1), result.Results[0].ImageID)
	assert.Equal(t, 0.10, result.Results[0].Distance)
	assert.Equal(t, uint64(2), result.Results[1].ImageID)
	assert.Equal(t, uint64(1), result.Results[2].ImageID)

	// 预览地址由内容键拼出。
	assert.Equal(t, ImagePreviewURLPrefix+"aaa.jpg", result.Results[0].PreviewURL)

	// 结果写入了缓存。
	assert.Equal(t, 1, h.cache.sets)
}

func TestSemanticSearch_TopKBound(t *testing.T) {
	h := newSearchHarness(t)
	h.captionRepo.searchHits = []*postgres.SearchHit{
		{ImageID: 1, ImageKey: "a.jpg", Distance: 0.1},
		{ImageID: 2, ImageKey: "b.jpg", Distance: 0.2},
		{ImageID: 3, ImageKey: "c.jpg", Distance: 0.3},
	}

	result, err := h.svc.SemanticSearch(context.Background(), "dog", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, 2, h.captionRepo.lastTopK)
}

func TestSemanticSearch_EmptyStore(t *testing.T) {
	h := newSearchHarness(t)

	result, err := h.svc.SemanticSearch(context.Background(), "anything", 10)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Results)
}

func TestSemanticSearch_CacheHitSkipsPipeline(t *testing.T) {
	h := newSearchHarness(t)

	cached := &vo.SemanticSearchVO{
		Query: "cat",
		Count: 1,
		Results: []vo.SearchResultItemVO{
			{ImageID: 7, ImageKey: "cached.jpg", Distance: 0.05},
		},
	}
	require.NoError(t, h.cache.SetSearchResults(context.Background(), "cat", 10, cached))
	// 命中缓存后不应触碰数据库。
	h.captionRepo.searchErr = errors.New("数据库不应被访问")

	result, err := h.svc.SemanticSearch(context.Background(), "cat", 10)
	require.NoError(t, err)
	assert.Equal(t, cached, result)
	assert.Equal(t, 0, h.embedder.calls)
}

func TestSemanticSearch_EmbedFailure(t *testing.T) {
	h := newSearchHarness(t)
	h.embedder.embedErr = myErrors.ErrEmbeddingFailed

	_, err := h.svc.SemanticSearch(context.Background(), "cat", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, myErrors.ErrEmbeddingFailed)
}

func TestBulkSearch(t *testing.T) {
	h := newSearchHarness(t)
	h.captionRepo.searchHits = []*postgres.SearchHit{
		{ImageID: 1, ImageKey: "a.jpg", Distance: 0.1},
	}

	result, err := h.svc.BulkSearch(context.Background(), []string{"cat", "dog"}, 5)
	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "cat", result.Results["cat"].Query)
	assert.Equal(t, "dog", result.Results["dog"].Query)
	assert.Equal(t, 1, result.Results["cat"].Count)
}

func TestBulkSearch_EmptyQueries(t *testing.T) {
	h := newSearchHarness(t)

	_, err := h.svc.BulkSearch(context.Background(), nil, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, myErrors.ErrInvalidInput)
}

func TestBulkSearch_FailFast(t *testing.T) {
	h := newSearchHarness(t)

	// 第二个查询为空，整批失败。
	_, err := h.svc.BulkSearch(context.Background(), []string{"cat", ""}, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, myErrors.ErrInvalidInput)
}
