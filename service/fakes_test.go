package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"
	"testing"

	"github.com/Xushengqwer/go-common/commonerrors"
	commonConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/image_search_service/dependencies"
	"github.com/Xushengqwer/image_search_service/models/entities"
	"github.com/Xushengqwer/image_search_service/models/vo"
	"github.com/Xushengqwer/image_search_service/myErrors"
	"github.com/Xushengqwer/image_search_service/repo/postgres"
)

func newTestLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(commonConfig.ZapConfig{})
	require.NoError(t, err)
	return logger
}

func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// --- 图片仓库 fake ---

type fakeImageRepo struct {
	mu     sync.Mutex
	byKey  map[string]*entities.Image
	nextID uint64
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{byKey: make(map[string]*entities.Image)}
}

func (f *fakeImageRepo) FindByKey(_ context.Context, imageKey string) (*entities.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if img, ok := f.byKey[imageKey]; ok {
		return img, nil
	}
	return nil, commonerrors.ErrRepoNotFound
}

func (f *fakeImageRepo) InsertIfAbsent(_ context.Context, image *entities.Image) (*entities.Image, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.byKey[image.ImageKey]; ok {
		return existing, false, nil
	}
	f.nextID++
	image.ID = f.nextID
	f.byKey[image.ImageKey] = image
	return image, true, nil
}

func (f *fakeImageRepo) GetByID(_ context.Context, id uint64) (*entities.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, img := range f.byKey {
		if img.ID == id {
			return img, nil
		}
	}
	return nil, commonerrors.ErrRepoNotFound
}

func (f *fakeImageRepo) ListImages(_ context.Context, offset, limit int) ([]*entities.Image, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]*entities.Image, 0, len(f.byKey))
	for _, img := range f.byKey {
		all = append(all, img)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

var _ postgres.ImageRepository = (*fakeImageRepo)(nil)

// --- 描述仓库 fake ---

type fakeCaptionRepo struct {
	mu         sync.Mutex
	captions   []*entities.Caption
	nextID     uint64
	createErr  error
	searchHits []*postgres.SearchHit
	searchErr  error
	lastTopK   int
}

func newFakeCaptionRepo() *fakeCaptionRepo {
	return &fakeCaptionRepo{}
}

func (f *fakeCaptionRepo) CreateCaption(_ context.Context, caption *entities.Caption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	caption.ID = f.nextID
	f.captions = append(f.captions, caption)
	return nil
}

func (f *fakeCaptionRepo) SearchByEmbedding(_ context.Context, _ pgvector.Vector, topK int) ([]*postgres.SearchHit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastTopK = topK
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if len(f.searchHits) > topK {
		return f.searchHits[:topK], nil
	}
	return f.searchHits, nil
}

func (f *fakeCaptionRepo) GetCaptionsByImageID(_ context.Context, imageID uint64) ([]*entities.Caption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Caption
	for _, c := range f.captions {
		if c.ImageID == imageID {
			out = append(out, c)
		}
	}
	return out, nil
}

var _ postgres.CaptionRepository = (*fakeCaptionRepo)(nil)

// --- 对象存储 fake ---

type fakeMinio struct {
	mu      sync.Mutex
	objects map[string][]byte
	uploads int
	deletes []string
}

func newFakeMinio() *fakeMinio {
	return &fakeMinio{objects: make(map[string][]byte)}
}

func (f *fakeMinio) UploadObject(_ context.Context, objectKey string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[objectKey] = data
	f.uploads++
	return nil
}

func (f *fakeMinio) GetObject(_ context.Context, objectKey string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[objectKey]
	if !ok {
		return nil, fmt.Errorf("对象 %s 不存在", objectKey)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeMinio) ObjectExists(_ context.Context, objectKey string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[objectKey]
	return ok, nil
}

func (f *fakeMinio) DeleteObject(_ context.Context, objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, objectKey)
	f.deletes = append(f.deletes, objectKey)
	return nil
}

func (f *fakeMinio) ListObjects(_ context.Context, fn func(dependencies.ObjectInfo) error) error {
	f.mu.Lock()
	keys := make([]string, 0, len(f.objects))
	sizes := make(map[string]int64, len(f.objects))
	for k, v := range f.objects {
		keys = append(keys, k)
		sizes[k] = int64(len(v))
	}
	f.mu.Unlock()
	for _, k := range keys {
		if err := fn(dependencies.ObjectInfo{Key: k, Size: sizes[k]}); err != nil {
			return err
		}
	}
	return nil
}

var _ dependencies.MinioClientInterface = (*fakeMinio)(nil)

// --- 句向量引擎 fake ---

type fakeEmbedder struct {
	embedErr error
	calls    int
}

func (f *fakeEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	if text == "" {
		return nil, myErrors.ErrEmbeddingFailed
	}
	vec := make([]float32, entities.EmbeddingDimension)
	// 用文本长度做一个可区分的确定性向量。
	vec[0] = float32(len(text))
	return vec, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec, err := f.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		out = append(out, vec)
	}
	return out, nil
}

func (f *fakeEmbedder) Dimension() int { return entities.EmbeddingDimension }

func (f *fakeEmbedder) Close() {}

var _ dependencies.TextEmbedder = (*fakeEmbedder)(nil)

// --- 搜索缓存 fake ---

type fakeSearchCache struct {
	mu            sync.Mutex
	entries       map[string]*vo.SemanticSearchVO
	invalidations int
	sets          int
}

func newFakeSearchCache() *fakeSearchCache {
	return &fakeSearchCache{entries: make(map[string]*vo.SemanticSearchVO)}
}

func cacheKey(query string, topK int) string {
	return fmt.Sprintf("%s|%d", query, topK)
}

func (f *fakeSearchCache) GetSearchResults(_ context.Context, query string, topK int) (*vo.SemanticSearchVO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if result, ok := f.entries[cacheKey(query, topK)]; ok {
		return result, nil
	}
	return nil, myErrors.ErrCacheMiss
}

func (f *fakeSearchCache) SetSearchResults(_ context.Context, query string, topK int, result *vo.SemanticSearchVO) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[cacheKey(query, topK)] = result
	f.sets++
	return nil
}

func (f *fakeSearchCache) InvalidateAll(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = make(map[string]*vo.SemanticSearchVO)
	f.invalidations++
	return nil
}
