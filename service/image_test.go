package service

import (
	"context"
	"io"
	"testing"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/image_search_service/myErrors"
)

type imageQueryHarness struct {
	ingest *ingestHarness
	svc    ImageQueryService
}

func newImageQueryHarness(t *testing.T) *imageQueryHarness {
	ingest := newIngestHarness(t)
	return &imageQueryHarness{
		ingest: ingest,
		svc:    NewImageQueryService(ingest.imageRepo, ingest.captionRepo, ingest.minio, newTestLogger(t)),
	}
}

func TestGetImageDetailByKey(t *testing.T) {
	h := newImageQueryHarness(t)
	data := encodeTestPNG(t, 30, 20)
	uploaded, err := h.ingest.svc.IngestImage(context.Background(), data, "a.png", "caption")
	require.NoError(t, err)

	detail, err := h.svc.GetImageDetailByKey(context.Background(), uploaded.ImageKey)
	require.NoError(t, err)
	assert.Equal(t, uploaded.ImageID, detail.ID)
	assert.Equal(t, uploaded.ImageKey, detail.ImageKey)
	require.NotNil(t, detail.Width)
	assert.Equal(t, 30, *detail.Width)

	_, err = h.svc.GetImageDetailByKey(context.Background(), "no-such-key.png")
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
}

func TestListImages_Pagination(t *testing.T) {
	h := newImageQueryHarness(t)
	for i := 0; i < 5; i++ {
		data := encodeTestPNG(t, 10+i, 10)
		_, err := h.ingest.svc.IngestImage(context.Background(), data, "img.png", "caption")
		require.NoError(t, err)
	}

	page1, err := h.svc.ListImages(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page1.Total)
	assert.Len(t, page1.Images, 2)
	assert.Equal(t, 1, page1.Page)
	assert.Equal(t, 2, page1.PageSize)

	page3, err := h.svc.ListImages(context.Background(), 3, 2)
	require.NoError(t, err)
	assert.Len(t, page3.Images, 1)

	// 非法分页参数回填默认值，不报错。
	fallback, err := h.svc.ListImages(context.Background(), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, fallback.Page)
	assert.Equal(t, defaultPageSize, fallback.PageSize)
}

func TestGetImageCaptions(t *testing.T) {
	h := newImageQueryHarness(t)
	data := encodeTestPNG(t, 16, 16)

	first, err := h.ingest.svc.IngestImage(context.Background(), data, "a.png", "first")
	require.NoError(t, err)
	_, err = h.ingest.svc.IngestImage(context.Background(), data, "a.png", "second")
	require.NoError(t, err)

	captions, err := h.svc.GetImageCaptions(context.Background(), first.ImageKey)
	require.NoError(t, err)
	assert.Equal(t, first.ImageKey, captions.ImageKey)
	require.Len(t, captions.Captions, 2)
	assert.Equal(t, "first", captions.Captions[0].Caption)
	assert.Equal(t, "second", captions.Captions[1].Caption)
}

func TestGetImageObject(t *testing.T) {
	h := newImageQueryHarness(t)
	data := encodeTestPNG(t, 24, 24)
	uploaded, err := h.ingest.svc.IngestImage(context.Background(), data, "a.png", "caption")
	require.NoError(t, err)

	reader, image, err := h.svc.GetImageObject(context.Background(), uploaded.ImageKey)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, data, got, "读回的字节必须与入库字节一致")
	require.NotNil(t, image.Format)
	assert.Equal(t, "png", *image.Format)
}

func TestGetImageObject_MissingBlob(t *testing.T) {
	h := newImageQueryHarness(t)
	data := encodeTestPNG(t, 24, 24)
	uploaded, err := h.ingest.svc.IngestImage(context.Background(), data, "a.png", "caption")
	require.NoError(t, err)

	// 元数据行在、对象被人为删除：两份存储失配。
	require.NoError(t, h.ingest.minio.DeleteObject(context.Background(), uploaded.ImageKey))

	_, _, err = h.svc.GetImageObject(context.Background(), uploaded.ImageKey)
	require.Error(t, err)
	assert.ErrorIs(t, err, myErrors.ErrReferentialIntegrity)
}

func TestGetImageObject_NotFound(t *testing.T) {
	h := newImageQueryHarness(t)

	_, _, err := h.svc.GetImageObject(context.Background(), "missing.png")
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
}
