package dependencies

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/image_search_service/config"
)

// ObjectInfo 对象存储中一个对象的概要信息，供清理任务遍历使用。
type ObjectInfo struct {
	Key          string    // 对象键（即图片内容键）
	Size         int64     // 字节数
	LastModified time.Time // 最后修改时间
}

// MinioClientInterface 定义了对象存储客户端需要实现的方法。
// - 对象存储在本服务中只承担“按键存取字节”的能力：键由内容哈希决定，
//   同一个键下的内容必然相同，因此重复写入是幂等的（覆盖安全）。
type MinioClientInterface interface {
	// UploadObject 将 reader 中的字节写入 objectKey。
	// 对同一个键的并发/重复写入采用 last-writer-wins，内容相同所以结果等价。
	UploadObject(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error

	// GetObject 按键读取对象字节流。对象不存在时返回错误。
	// 调用方负责 Close 返回的 ReadCloser。
	GetObject(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// ObjectExists 按键判断对象是否存在。
	ObjectExists(ctx context.Context, objectKey string) (bool, error)

	// DeleteObject 按键删除对象。仅清理任务使用，业务流水线不删除对象。
	DeleteObject(ctx context.Context, objectKey string) error

	// ListObjects 遍历桶内全部对象，逐个回调。回调返回 error 时中止遍历。
	ListObjects(ctx context.Context, fn func(ObjectInfo) error) error
}

type minioClient struct {
	client     *minio.Client
	bucketName string
	logger     *core.ZapLogger
}

// InitMinio 初始化 MinIO 客户端，并确保目标桶存在。
// - HTTP Transport 包装了 otelhttp，使对象存储的出站请求进入分布式追踪。
func InitMinio(cfg *appConfig.MinioConfig, logger *core.ZapLogger) (MinioClientInterface, error) {
	if cfg == nil {
		logger.Error("MinIO 配置为空")
		return nil, fmt.Errorf("MinIO 配置不能为nil")
	}
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.BucketName == "" {
		logger.Error("MinIO 配置不完整", zap.Any("配置详情", cfg))
		return nil, fmt.Errorf("MinIO 配置不完整，缺少关键字段 (Endpoint, AccessKey, SecretKey, BucketName)")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	if err != nil {
		logger.Error("创建 MinIO 客户端失败", zap.String("endpoint", cfg.Endpoint), zap.Error(err))
		return nil, fmt.Errorf("创建 MinIO 客户端失败: %w", err)
	}

	// 确保桶存在（幂等）。
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		logger.Error("检查 MinIO 桶是否存在失败", zap.String("bucket", cfg.BucketName), zap.Error(err))
		return nil, fmt.Errorf("检查桶 '%s' 失败: %w", cfg.BucketName, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			logger.Error("创建 MinIO 桶失败", zap.String("bucket", cfg.BucketName), zap.Error(err))
			return nil, fmt.Errorf("创建桶 '%s' 失败: %w", cfg.BucketName, err)
		}
		logger.Info("已创建 MinIO 桶", zap.String("bucket", cfg.BucketName))
	}

	logger.Info("MinIO 客户端初始化成功",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.BucketName),
		zap.Bool("ssl", cfg.UseSSL),
	)

	return &minioClient{
		client:     client,
		bucketName: cfg.BucketName,
		logger:     logger,
	}, nil
}

// UploadObject 将字节流写入对象存储。
func (m *minioClient) UploadObject(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	m.logger.Info("开始上传对象到 MinIO",
		zap.String("对象键", objectKey),
		zap.Int64("字节数", size),
		zap.String("内容类型", contentType))

	_, err := m.client.PutObject(ctx, m.bucketName, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		m.logger.Error("MinIO 对象上传失败", zap.String("对象键", objectKey), zap.Error(err))
		return fmt.Errorf("上传对象 '%s' 到 MinIO 失败: %w", objectKey, err)
	}

	m.logger.Info("MinIO 对象上传成功", zap.String("对象键", objectKey))
	return nil
}

// GetObject 按键读取对象。
// minio-go 的 GetObject 是懒加载的，这里先 Stat 一次以便把“不存在”提前暴露为错误。
func (m *minioClient) GetObject(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	if _, err := m.client.StatObject(ctx, m.bucketName, objectKey, minio.StatObjectOptions{}); err != nil {
		m.logger.Warn("MinIO 对象读取失败 (Stat)", zap.String("对象键", objectKey), zap.Error(err))
		return nil, fmt.Errorf("读取对象 '%s' 失败: %w", objectKey, err)
	}

	obj, err := m.client.GetObject(ctx, m.bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		m.logger.Error("MinIO 对象读取失败", zap.String("对象键", objectKey), zap.Error(err))
		return nil, fmt.Errorf("读取对象 '%s' 失败: %w", objectKey, err)
	}
	return obj, nil
}

// ObjectExists 按键判断对象是否存在。
func (m *minioClient) ObjectExists(ctx context.Context, objectKey string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucketName, objectKey, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		m.logger.Error("MinIO StatObject 失败", zap.String("对象键", objectKey), zap.Error(err))
		return false, fmt.Errorf("检查对象 '%s' 是否存在失败: %w", objectKey, err)
	}
	return true, nil
}

// DeleteObject 按键删除对象。
func (m *minioClient) DeleteObject(ctx context.Context, objectKey string) error {
	m.logger.Info("准备从 MinIO 删除对象", zap.String("对象键", objectKey))
	if err := m.client.RemoveObject(ctx, m.bucketName, objectKey, minio.RemoveObjectOptions{}); err != nil {
		m.logger.Error("MinIO 对象删除失败", zap.String("对象键", objectKey), zap.Error(err))
		return fmt.Errorf("从 MinIO 删除对象 '%s' 失败: %w", objectKey, err)
	}
	m.logger.Info("MinIO 对象删除成功", zap.String("对象键", objectKey))
	return nil
}

// ListObjects 遍历桶内全部对象。
func (m *minioClient) ListObjects(ctx context.Context, fn func(ObjectInfo) error) error {
	for obj := range m.client.ListObjects(ctx, m.bucketName, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			// 上下文取消也会以 obj.Err 形式出现，统一向上返回。
			if errors.Is(obj.Err, context.Canceled) || errors.Is(obj.Err, context.DeadlineExceeded) {
				return obj.Err
			}
			m.logger.Error("遍历 MinIO 对象失败", zap.Error(obj.Err))
			return fmt.Errorf("遍历桶 '%s' 失败: %w", m.bucketName, obj.Err)
		}
		if err := fn(ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		}); err != nil {
			return err
		}
	}
	return nil
}
