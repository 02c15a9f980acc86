package tasks

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	commonConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/image_search_service/dependencies"
	"github.com/Xushengqwer/image_search_service/models/entities"
	"github.com/Xushengqwer/image_search_service/repo/postgres"
)

// sweepImageRepo 只实现清理任务用到的 FindByKey，其余方法不应被调用。
type sweepImageRepo struct {
	known map[string]bool
}

func (r *sweepImageRepo) FindByKey(_ context.Context, imageKey string) (*entities.Image, error) {
	if r.known[imageKey] {
		img := &entities.Image{ImageKey: imageKey}
		img.ID = 1
		return img, nil
	}
	return nil, commonerrors.ErrRepoNotFound
}

func (r *sweepImageRepo) InsertIfAbsent(context.Context, *entities.Image) (*entities.Image, bool, error) {
	panic("清理任务不应调用 InsertIfAbsent")
}

func (r *sweepImageRepo) GetByID(context.Context, uint64) (*entities.Image, error) {
	panic("清理任务不应调用 GetByID")
}

func (r *sweepImageRepo) ListImages(context.Context, int, int) ([]*entities.Image, int64, error) {
	panic("清理任务不应调用 ListImages")
}

var _ postgres.ImageRepository = (*sweepImageRepo)(nil)

// sweepMinio 以固定清单回放对象，记录删除调用。
type sweepMinio struct {
	objects []dependencies.ObjectInfo
	deleted []string
}

func (m *sweepMinio) ListObjects(_ context.Context, fn func(dependencies.ObjectInfo) error) error {
	for _, obj := range m.objects {
		if err := fn(obj); err != nil {
			return err
		}
	}
	return nil
}

func (m *sweepMinio) DeleteObject(_ context.Context, objectKey string) error {
	m.deleted = append(m.deleted, objectKey)
	return nil
}

func (m *sweepMinio) UploadObject(context.Context, string, io.Reader, int64, string) error {
	panic("清理任务不应调用 UploadObject")
}

func (m *sweepMinio) GetObject(context.Context, string) (io.ReadCloser, error) {
	panic("清理任务不应调用 GetObject")
}

func (m *sweepMinio) ObjectExists(context.Context, string) (bool, error) {
	panic("清理任务不应调用 ObjectExists")
}

var _ dependencies.MinioClientInterface = (*sweepMinio)(nil)

func newSweepLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(commonConfig.ZapConfig{})
	require.NoError(t, err)
	return logger
}

func TestSweepOnce(t *testing.T) {
	old := time.Now().Add(-48 * time.Hour)
	recent := time.Now().Add(-time.Minute)

	minio := &sweepMinio{
		objects: []dependencies.ObjectInfo{
			{Key: "orphan-old.jpg", LastModified: old},      // 无主且过了保护窗口：删
			{Key: "referenced.jpg", LastModified: old},      // 有元数据行引用：留
			{Key: "orphan-recent.jpg", LastModified: recent}, // 无主但还在保护窗口内：留
		},
	}
	repo := &sweepImageRepo{known: map[string]bool{"referenced.jpg": true}}

	// 直接构造并调用 sweepOnce，不经过 cron 调度。
	task := &OrphanBlobSweepTask{
		imageRepo:   repo,
		minioClient: minio,
		logger:      newSweepLogger(t),
	}
	task.sweepOnce(context.Background())

	assert.Equal(t, []string{"orphan-old.jpg"}, minio.deleted)
}

func TestSweepOnce_ContextCancelled(t *testing.T) {
	minio := &sweepMinio{
		objects: []dependencies.ObjectInfo{
			{Key: "orphan.jpg", LastModified: time.Now().Add(-48 * time.Hour)},
		},
	}
	repo := &sweepImageRepo{known: map[string]bool{}}

	task := &OrphanBlobSweepTask{
		imageRepo:   repo,
		minioClient: minio,
		logger:      newSweepLogger(t),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	task.sweepOnce(ctx)

	// 上下文已取消：遍历中止，什么都不删。
	assert.Empty(t, minio.deleted)
}
