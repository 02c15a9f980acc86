package redis

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/image_search_service/constant"
	"github.com/Xushengqwer/image_search_service/models/vo"
	"github.com/Xushengqwer/image_search_service/myErrors"
)

// SearchCache 定义了语义搜索结果的缓存操作接口。
// - 目标: 同一查询在短时间内重复到达时，跳过向量化与数据库检索。
// - 任何入库成功都会使整个搜索缓存失效：新图片可能改变任意查询的 top-K。
type SearchCache interface {
	// GetSearchResults 按查询文本与 topK 获取缓存的搜索结果。
	// - 缓存未命中返回 myErrors.ErrCacheMiss，上层服务据此回源。
	GetSearchResults(ctx context.Context, query string, topK int) (*vo.SemanticSearchVO, error)

	// SetSearchResults 写入搜索结果缓存，TTL 见 constant.SearchCacheTTL。
	SetSearchResults(ctx context.Context, query string, topK int, result *vo.SemanticSearchVO) error

	// InvalidateAll 清空全部搜索缓存（SCAN 前缀 + 批量 DEL）。
	// - 缓存失效是尽力而为的：失败只记日志，不影响入库流水线的结果。
	InvalidateAll(ctx context.Context) error
}

// searchCacheImpl 是 SearchCache 接口的 Redis 实现。
type searchCacheImpl struct {
	redisClient *redis.Client
	logger      *core.ZapLogger
}

// NewSearchCache 是 searchCacheImpl 的构造函数。
func NewSearchCache(redisClient *redis.Client, logger *core.ZapLogger) SearchCache {
	return &searchCacheImpl{
		redisClient: redisClient,
		logger:      logger,
	}
}

// buildKey 构造缓存键：前缀 + SHA-1(查询文本) + topK。
// 哈希避免把任意用户输入直接拼进键名，topK 入键保证不同截断量互不串用。
func buildKey(query string, topK int) string {
	sum := sha1.Sum([]byte(query))
	return fmt.Sprintf("%s%s:%d", constant.SearchCacheKeyPrefix, hex.EncodeToString(sum[:]), topK)
}

// GetSearchResults 实现缓存读取。
func (c *searchCacheImpl) GetSearchResults(ctx context.Context, query string, topK int) (*vo.SemanticSearchVO, error) {
	key := buildKey(query, topK)

	data, err := c.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, myErrors.ErrCacheMiss
		}
		c.logger.Error("读取搜索缓存失败", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("读取搜索缓存失败: %w", err)
	}

	var result vo.SemanticSearchVO
	if err := json.Unmarshal(data, &result); err != nil {
		// 缓存数据损坏按未命中处理，顺手删掉坏数据。
		c.logger.Warn("搜索缓存数据反序列化失败，视为未命中", zap.String("key", key), zap.Error(err))
		c.redisClient.Del(ctx, key)
		return nil, myErrors.ErrCacheMiss
	}

	c.logger.Debug("搜索缓存命中", zap.String("key", key))
	return &result, nil
}

// SetSearchResults 实现缓存写入。
func (c *searchCacheImpl) SetSearchResults(ctx context.Context, query string, topK int, result *vo.SemanticSearchVO) error {
	key := buildKey(query, topK)

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("序列化搜索结果失败: %w", err)
	}

	if err := c.redisClient.Set(ctx, key, data, constant.SearchCacheTTL).Err(); err != nil {
		c.logger.Error("写入搜索缓存失败", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("写入搜索缓存失败: %w", err)
	}
	return nil
}

// InvalidateAll 实现全量缓存失效。
// 用 SCAN 而不是 KEYS：失效发生在入库热路径的旁路上，不能阻塞 Redis。
func (c *searchCacheImpl) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	var deleted int64

	for {
		keys, nextCursor, err := c.redisClient.Scan(ctx, cursor,
			constant.SearchCacheKeyPrefix+"*", constant.SearchCacheScanBatchSize).Result()
		if err != nil {
			c.logger.Error("扫描搜索缓存键失败", zap.Error(err))
			return fmt.Errorf("扫描搜索缓存键失败: %w", err)
		}

		if len(keys) > 0 {
			n, err := c.redisClient.Del(ctx, keys...).Result()
			if err != nil {
				c.logger.Error("批量删除搜索缓存键失败", zap.Int("count", len(keys)), zap.Error(err))
				return fmt.Errorf("批量删除搜索缓存键失败: %w", err)
			}
			deleted += n
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	if deleted > 0 {
		c.logger.Info("搜索缓存已全量失效", zap.Int64("删除键数", deleted))
	}
	return nil
}
