package utils

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/image_search_service/myErrors"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestExtractImageMetadata_PNG(t *testing.T) {
	data := encodePNG(t, 120, 80)

	meta, err := ExtractImageMetadata(data)
	require.NoError(t, err)
	assert.Equal(t, 120, meta.Width)
	assert.Equal(t, 80, meta.Height)
	assert.Equal(t, "png", meta.Format)
	assert.Equal(t, int64(len(data)), meta.SizeBytes)
}

func TestExtractImageMetadata_JPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 16))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	meta, err := ExtractImageMetadata(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 32, meta.Width)
	assert.Equal(t, 16, meta.Height)
	assert.Equal(t, "jpeg", meta.Format)
}

func TestExtractImageMetadata_Garbage(t *testing.T) {
	_, err := ExtractImageMetadata([]byte("this is definitely not an image"))
	require.Error(t, err)
	assert.ErrorIs(t, err, myErrors.ErrImageDecode)
}

func TestExtractImageMetadata_Empty(t *testing.T) {
	_, err := ExtractImageMetadata(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, myErrors.ErrImageDecode)
}

func TestExtractImageMetadata_TruncatedPNG(t *testing.T) {
	data := encodePNG(t, 64, 64)
	// 只留前 8 个字节（PNG 魔数），头部信息缺失。
	_, err := ExtractImageMetadata(data[:8])
	require.Error(t, err)
	assert.ErrorIs(t, err, myErrors.ErrImageDecode)
}
