package redis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Xushengqwer/image_search_service/constant"
)

func TestBuildKey(t *testing.T) {
	key1 := buildKey("a cat on a sofa", 10)
	key2 := buildKey("a cat on a sofa", 10)
	assert.Equal(t, key1, key2, "相同查询与 topK 必须得到相同的键")
	assert.True(t, strings.HasPrefix(key1, constant.SearchCacheKeyPrefix))

	// topK 参与键的区分。
	key3 := buildKey("a cat on a sofa", 20)
	assert.NotEqual(t, key1, key3)

	// 不同查询文本产生不同的键。
	key4 := buildKey("a dog in a park", 10)
	assert.NotEqual(t, key1, key4)

	// 查询文本经哈希后入键：超长或含特殊字符的查询不会产生非法键。
	long := buildKey(strings.Repeat("很长的查询 ", 200), 10)
	assert.Less(t, len(long), 100)
	assert.NotContains(t, long, " ")
}
