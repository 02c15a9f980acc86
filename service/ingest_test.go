package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/image_search_service/constant"
	"github.com/Xushengqwer/image_search_service/myErrors"
	"github.com/Xushengqwer/image_search_service/utils"
)

type ingestHarness struct {
	imageRepo   *fakeImageRepo
	captionRepo *fakeCaptionRepo
	minio       *fakeMinio
	embedder    *fakeEmbedder
	cache       *fakeSearchCache
	svc         IngestService
}

func newIngestHarness(t *testing.T) *ingestHarness {
	h := &ingestHarness{
		imageRepo:   newFakeImageRepo(),
		captionRepo: newFakeCaptionRepo(),
		minio:       newFakeMinio(),
		embedder:    &fakeEmbedder{},
		cache:       newFakeSearchCache(),
	}
	// Kafka 生产者为 nil：未配置 broker 的部署形态，事件发送被跳过。
	h.svc = NewIngestService(h.imageRepo, h.captionRepo, h.minio, h.embedder, h.cache, nil, newTestLogger(t))
	return h
}

func TestIngestImage_NewImage(t *testing.T) {
	h := newIngestHarness(t)
	data := encodeTestPNG(t, 100, 60)

	result, err := h.svc.IngestImage(context.Background(), data, "cat.png", "a cat on a sofa")
	require.NoError(t, err)

	assert.False(t, result.IsDuplicate)
	assert.Equal(t, utils.ImageKey(data, "cat.png"), result.ImageKey)
	assert.NotZero(t, result.ImageID)
	assert.NotZero(t, result.CaptionID)

	// 图片行带着解码出的元数据。
	img, err := h.imageRepo.FindByKey(context.Background(), result.ImageKey)
	require.NoError(t, err)
	require.NotNil(t, img.Width)
	assert.Equal(t, 100, *img.Width)
	require.NotNil(t, img.Height)
	assert.Equal(t, 60, *img.Height)
	require.NotNil(t, img.Format)
	assert.Equal(t, "png", *img.Format)
	assert.Equal(t, int64(len(data)), img.SizeBytes)

	// 对象按内容键写入了对象存储。
	exists, err := h.minio.ObjectExists(context.Background(), result.ImageKey)
	require.NoError(t, err)
	assert.True(t, exists)

	// 描述行挂在图片行下，且带向量。
	captions, err := h.captionRepo.GetCaptionsByImageID(context.Background(), result.ImageID)
	require.NoError(t, err)
	require.Len(t, captions, 1)
	assert.Equal(t, "a cat on a sofa", captions[0].Caption)

	// 入库成功后搜索缓存被整体清空。
	assert.Equal(t, 1, h.cache.invalidations)
}

func TestIngestImage_DuplicateBytesAppendsCaption(t *testing.T) {
	h := newIngestHarness(t)
	data := encodeTestPNG(t, 40, 40)

	first, err := h.svc.IngestImage(context.Background(), data, "a.png", "first caption")
	require.NoError(t, err)
	require.False(t, first.IsDuplicate)

	// 文件名不同、字节相同：仍是同一张图片。
	second, err := h.svc.IngestImage(context.Background(), data, "b.png", "second caption")
	require.NoError(t, err)

	assert.True(t, second.IsDuplicate)
	assert.Equal(t, first.ImageID, second.ImageID)
	assert.Equal(t, first.ImageKey, second.ImageKey)
	assert.NotEqual(t, first.CaptionID, second.CaptionID)

	// 去重路径不重传对象。
	assert.Equal(t, 1, h.minio.uploads)

	// 两条描述都挂在同一张图片下。
	captions, err := h.captionRepo.GetCaptionsByImageID(context.Background(), first.ImageID)
	require.NoError(t, err)
	assert.Len(t, captions, 2)
}

func TestIngestImage_DecodeFailureWritesNothing(t *testing.T) {
	h := newIngestHarness(t)

	_, err := h.svc.IngestImage(context.Background(), []byte("not an image at all"), "x.jpg", "caption")
	require.Error(t, err)
	assert.ErrorIs(t, err, myErrors.ErrImageDecode)

	// 解码失败发生在一切写入之前：没有对象、没有行、缓存未动。
	assert.Equal(t, 0, h.minio.uploads)
	assert.Empty(t, h.imageRepo.byKey)
	assert.Empty(t, h.captionRepo.captions)
	assert.Equal(t, 0, h.cache.invalidations)
}

func TestIngestImage_EmbedFailureNoCaption(t *testing.T) {
	h := newIngestHarness(t)
	h.embedder.embedErr = myErrors.ErrEmbeddingFailed
	data := encodeTestPNG(t, 20, 20)

	_, err := h.svc.IngestImage(context.Background(), data, "a.png", "caption")
	require.Error(t, err)
	assert.ErrorIs(t, err, myErrors.ErrEmbeddingFailed)

	// 图片行与对象已写入（去重语义允许），但绝不能出现没有向量的描述行。
	assert.Empty(t, h.captionRepo.captions)
	assert.Equal(t, 0, h.cache.invalidations)
}

func TestIngestImage_InvalidInput(t *testing.T) {
	h := newIngestHarness(t)
	validPNG := encodeTestPNG(t, 10, 10)

	cases := []struct {
		name    string
		data    []byte
		caption string
	}{
		{"空字节", nil, "caption"},
		{"空描述", validPNG, "   "},
		{"超过大小上限", make([]byte, constant.MaxImageSizeBytes+1), "caption"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.svc.IngestImage(context.Background(), tc.data, "a.png", tc.caption)
			require.Error(t, err)
			assert.ErrorIs(t, err, myErrors.ErrInvalidInput)
		})
	}

	// 校验失败不应产生任何写入。
	assert.Equal(t, 0, h.minio.uploads)
	assert.Empty(t, h.imageRepo.byKey)
}
