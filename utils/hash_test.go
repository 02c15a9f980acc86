package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageKey_Deterministic(t *testing.T) {
	data := []byte("some image bytes")

	key1 := ImageKey(data, "photo.jpg")
	key2 := ImageKey(data, "photo.jpg")
	assert.Equal(t, key1, key2, "相同字节和文件名必须得到相同的内容键")

	// 文件名主体不参与键的计算，只有扩展名参与。
	key3 := ImageKey(data, "完全不同的名字.jpg")
	assert.Equal(t, key1, key3)
}

func TestImageKey_DifferentBytesDifferentKey(t *testing.T) {
	key1 := ImageKey([]byte("image a"), "a.png")
	key2 := ImageKey([]byte("image b"), "a.png")
	assert.NotEqual(t, key1, key2)
}

func TestImageKey_ExtensionHandling(t *testing.T) {
	data := []byte("bytes")

	// 扩展名统一转小写。
	upper := ImageKey(data, "PHOTO.JPG")
	lower := ImageKey(data, "photo.jpg")
	assert.Equal(t, lower, upper)
	assert.True(t, strings.HasSuffix(upper, ".jpg"))

	// 无扩展名时回退为 .jpg。
	noExt := ImageKey(data, "photo")
	assert.True(t, strings.HasSuffix(noExt, ".jpg"))

	// 不同扩展名产生不同的键（即使字节相同）。
	png := ImageKey(data, "photo.png")
	assert.NotEqual(t, lower, png)
	assert.True(t, strings.HasSuffix(png, ".png"))
}

func TestImageKey_HashPartIsHex(t *testing.T) {
	key := ImageKey([]byte("bytes"), "x.png")
	hashPart := strings.TrimSuffix(key, ".png")
	// SHA-256 十六进制摘要固定 64 字符。
	assert.Len(t, hashPart, 64)
	assert.Equal(t, strings.ToLower(hashPart), hashPart)
}
