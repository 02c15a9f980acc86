package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/image_search_service/constant"
	"github.com/Xushengqwer/image_search_service/dependencies"
	"github.com/Xushengqwer/image_search_service/models/entities"
	"github.com/Xushengqwer/image_search_service/models/vo"
	"github.com/Xushengqwer/image_search_service/mq/producer"
	"github.com/Xushengqwer/image_search_service/myErrors"
	"github.com/Xushengqwer/image_search_service/repo/postgres"
	myredis "github.com/Xushengqwer/image_search_service/repo/redis"
	"github.com/Xushengqwer/image_search_service/utils"
)

// IngestService 定义了图片入库的业务流程接口。
type IngestService interface {
	// IngestImage 处理一次“图片 + 描述”的入库调用。
	// - 内容键由字节哈希派生；相同字节的重复入库不会产生新的 Image 行，
	//   只会为既有图片追加一条新的 Caption（去重对调用方透明，结果中
	//   以 IsDuplicate 标出）。
	// - 顺序保证 Caption 永远不会先于其 Image 出现：先图片行、后描述行。
	// - 解码失败或向量化失败都会中止整个调用，不产生部分写入
	//   （对象存储中可能留下已上传的无主对象，由清理任务兜底回收）。
	IngestImage(ctx context.Context, data []byte, originalFilename string, caption string) (*vo.UploadImageVO, error)
}

// ingestService 是 IngestService 接口的具体实现。
type ingestService struct {
	imageRepo   postgres.ImageRepository   // 图片元数据的 PostgreSQL 操作
	captionRepo postgres.CaptionRepository // 描述与向量的 PostgreSQL 操作
	minioClient dependencies.MinioClientInterface
	embedder    dependencies.TextEmbedder
	searchCache myredis.SearchCache
	kafkaSvc    *producer.KafkaProducer // 可为 nil（未配置 broker 时退化为不发事件）
	logger      *core.ZapLogger
}

// NewIngestService 是 ingestService 的构造函数，通过依赖注入初始化服务实例。
func NewIngestService(
	imageRepo postgres.ImageRepository,
	captionRepo postgres.CaptionRepository,
	minioClient dependencies.MinioClientInterface,
	embedder dependencies.TextEmbedder,
	searchCache myredis.SearchCache,
	kafkaSvc *producer.KafkaProducer,
	logger *core.ZapLogger,
) IngestService {
	return &ingestService{
		imageRepo:   imageRepo,
		captionRepo: captionRepo,
		minioClient: minioClient,
		embedder:    embedder,
		searchCache: searchCache,
		kafkaSvc:    kafkaSvc,
		logger:      logger,
	}
}

// IngestImage 实现入库流水线。
func (s *ingestService) IngestImage(ctx context.Context, data []byte, originalFilename string, caption string) (*vo.UploadImageVO, error) {
	// 1. 入参校验。边界层已做了一轮，这里再守一次业务不变量。
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: 图片字节为空", myErrors.ErrInvalidInput)
	}
	if len(data) > constant.MaxImageSizeBytes {
		return nil, fmt.Errorf("%w: 图片超过大小上限 %d 字节", myErrors.ErrInvalidInput, constant.MaxImageSizeBytes)
	}
	if strings.TrimSpace(caption) == "" {
		return nil, fmt.Errorf("%w: 描述文本为空", myErrors.ErrInvalidInput)
	}

	// 2. 计算内容键，查询是否为重复图片。
	imageKey := utils.ImageKey(data, originalFilename)

	var image *entities.Image
	isDuplicate := false

	existing, err := s.imageRepo.FindByKey(ctx, imageKey)
	switch {
	case err == nil:
		// 字节级重复：不重传、不重解码，直接复用既有图片行。
		image = existing
		isDuplicate = true
		s.logger.Info("图片内容键已存在，走去重路径",
			zap.String("imageKey", imageKey), zap.Uint64("imageID", existing.ID))

	case errors.Is(err, commonerrors.ErrRepoNotFound):
		// 3. 新图片：解码元数据 -> 上传对象 -> 插入图片行。
		// 解码放在最前，坏字节在写任何存储之前就被拒绝。
		meta, metaErr := utils.ExtractImageMetadata(data)
		if metaErr != nil {
			s.logger.Warn("图片解码失败，中止入库",
				zap.String("imageKey", imageKey), zap.Error(metaErr))
			return nil, metaErr
		}

		contentType := "image/" + meta.Format
		if uploadErr := s.minioClient.UploadObject(ctx, imageKey,
			bytes.NewReader(data), int64(len(data)), contentType); uploadErr != nil {
			return nil, fmt.Errorf("上传图片对象失败: %w", uploadErr)
		}

		newImage := &entities.Image{
			ImageKey:  imageKey,
			Width:     &meta.Width,
			Height:    &meta.Height,
			Format:    &meta.Format,
			SizeBytes: meta.SizeBytes,
		}
		inserted, created, insertErr := s.imageRepo.InsertIfAbsent(ctx, newImage)
		if insertErr != nil {
			return nil, fmt.Errorf("插入图片记录失败: %w", insertErr)
		}
		image = inserted
		isDuplicate = !created
		if !created {
			// 并发竞争：另一请求抢先插入了同一内容键。对象内容相同，重复上传无害。
			s.logger.Info("并发入库竞争，复用对方插入的图片行",
				zap.String("imageKey", imageKey), zap.Uint64("imageID", inserted.ID))
		}

	default:
		return nil, fmt.Errorf("查询图片内容键失败: %w", err)
	}

	// 4. 描述向量化。失败中止：没有向量的描述行对搜索毫无意义。
	embedding, err := s.embedder.EmbedText(ctx, caption)
	if err != nil {
		s.logger.Error("描述向量化失败，中止入库",
			zap.String("imageKey", imageKey), zap.Error(err))
		return nil, err
	}

	// 5. 插入描述行。此时 image 行必然存在，外键不应失败。
	captionEntity := &entities.Caption{
		ImageID:          image.ID,
		Caption:          caption,
		CaptionEmbedding: pgvector.NewVector(embedding),
	}
	if err := s.captionRepo.CreateCaption(ctx, captionEntity); err != nil {
		return nil, err
	}

	// 6. 入库成功，旁路动作：清搜索缓存 + 发 Kafka 事件。
	// 两者都是尽力而为，失败只记日志，不回滚已提交的数据。
	if err := s.searchCache.InvalidateAll(ctx); err != nil {
		s.logger.Warn("入库后清空搜索缓存失败", zap.Error(err))
	}

	if s.kafkaSvc != nil {
		imageID := image.ID
		captionID := captionEntity.ID
		isNew := !isDuplicate
		go func() {
			sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.kafkaSvc.SendImageIngestedEvent(sendCtx, imageID, imageKey, captionID, caption, isNew); err != nil {
				s.logger.Error("发送图片入库事件失败",
					zap.Uint64("imageID", imageID), zap.Error(err))
			}
		}()
	}

	return &vo.UploadImageVO{
		ImageID:     image.ID,
		ImageKey:    image.ImageKey,
		CaptionID:   captionEntity.ID,
		IsDuplicate: isDuplicate,
		Caption:     caption,
	}, nil
}
