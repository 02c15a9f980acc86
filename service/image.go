package service

import (
	"context"
	"fmt"
	"io"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/image_search_service/dependencies"
	"github.com/Xushengqwer/image_search_service/models/entities"
	"github.com/Xushengqwer/image_search_service/models/vo"
	"github.com/Xushengqwer/image_search_service/myErrors"
	"github.com/Xushengqwer/image_search_service/repo/postgres"
)

// ImageQueryService 定义了图片元数据与原始字节的读取接口。
// 入库与搜索之外的全部只读操作都收拢在这里。
type ImageQueryService interface {
	// GetImageDetailByKey 按内容键获取单张图片的元数据。
	// - 未找到时透传 commonerrors.ErrRepoNotFound。
	GetImageDetailByKey(ctx context.Context, imageKey string) (*vo.ImageDetailVO, error)

	// ListImages 分页列出图片，按创建时间倒序。
	// - page 从 1 开始，0 或负值按 1 处理；pageSize 非法时回填默认值。
	ListImages(ctx context.Context, page, pageSize int) (*vo.ImageListVO, error)

	// GetImageCaptions 按内容键列出图片的全部描述。
	GetImageCaptions(ctx context.Context, imageKey string) (*vo.ImageCaptionsVO, error)

	// GetImageObject 按内容键读取图片的原始字节流。
	// - 先校验元数据行存在（未找到返回 commonerrors.ErrRepoNotFound），
	//   再从对象存储取流；行存在而对象缺失说明两份存储失配，按内部错误处理。
	// - 调用方负责 Close 返回的 ReadCloser。
	GetImageObject(ctx context.Context, imageKey string) (io.ReadCloser, *entities.Image, error)
}

// imageQueryService 是 ImageQueryService 接口的具体实现。
type imageQueryService struct {
	imageRepo   postgres.ImageRepository
	captionRepo postgres.CaptionRepository
	minioClient dependencies.MinioClientInterface
	logger      *core.ZapLogger
}

// NewImageQueryService 是 imageQueryService 的构造函数。
func NewImageQueryService(
	imageRepo postgres.ImageRepository,
	captionRepo postgres.CaptionRepository,
	minioClient dependencies.MinioClientInterface,
	logger *core.ZapLogger,
) ImageQueryService {
	return &imageQueryService{
		imageRepo:   imageRepo,
		captionRepo: captionRepo,
		minioClient: minioClient,
		logger:      logger,
	}
}

const defaultPageSize = 10

// GetImageDetailByKey 实现单张图片的元数据查询。
func (s *imageQueryService) GetImageDetailByKey(ctx context.Context, imageKey string) (*vo.ImageDetailVO, error) {
	image, err := s.imageRepo.FindByKey(ctx, imageKey)
	if err != nil {
		return nil, err
	}
	return vo.NewImageDetailVOFromEntity(image), nil
}

// ListImages 实现图片分页列表。
func (s *imageQueryService) ListImages(ctx context.Context, page, pageSize int) (*vo.ImageListVO, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = defaultPageSize
	}
	offset := (page - 1) * pageSize

	images, total, err := s.imageRepo.ListImages(ctx, offset, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]*vo.ImageDetailVO, 0, len(images))
	for _, img := range images {
		items = append(items, vo.NewImageDetailVOFromEntity(img))
	}

	return &vo.ImageListVO{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Images:   items,
	}, nil
}

// GetImageCaptions 实现图片描述列表查询。
func (s *imageQueryService) GetImageCaptions(ctx context.Context, imageKey string) (*vo.ImageCaptionsVO, error) {
	image, err := s.imageRepo.FindByKey(ctx, imageKey)
	if err != nil {
		return nil, err
	}

	captions, err := s.captionRepo.GetCaptionsByImageID(ctx, image.ID)
	if err != nil {
		return nil, err
	}

	items := make([]vo.CaptionVO, 0, len(captions))
	for _, c := range captions {
		items = append(items, vo.CaptionVO{
			ID:        c.ID,
			Caption:   c.Caption,
			CreatedAt: c.CreatedAt,
		})
	}

	return &vo.ImageCaptionsVO{
		ImageKey: imageKey,
		Captions: items,
	}, nil
}

// GetImageObject 实现图片原始字节的读取。
func (s *imageQueryService) GetImageObject(ctx context.Context, imageKey string) (io.ReadCloser, *entities.Image, error) {
	image, err := s.imageRepo.FindByKey(ctx, imageKey)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.minioClient.GetObject(ctx, imageKey)
	if err != nil {
		// 元数据行在、对象不在：两份存储的一致性被破坏了。
		s.logger.Error("图片元数据存在但对象存储读取失败",
			zap.String("imageKey", imageKey), zap.Error(err))
		return nil, nil, fmt.Errorf("%w: 对象 %s 缺失或不可读", myErrors.ErrReferentialIntegrity, imageKey)
	}

	return reader, image, nil
}
