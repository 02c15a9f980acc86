package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/image_search_service/models/entities"
)

// ImageRepository 定义了图片元数据在 PostgreSQL 中的持久化操作接口。
// 接口的设计旨在将数据访问逻辑与业务逻辑（服务层）解耦。
type ImageRepository interface {
	// FindByKey 按内容键检索图片记录。
	// - 内容键是图片字节的哈希派生值，库内唯一（uniqueIndex 保证）。
	// - 未找到时返回 commonerrors.ErrRepoNotFound。
	FindByKey(ctx context.Context, imageKey string) (*entities.Image, error)

	// InsertIfAbsent 插入图片记录；若内容键已存在则返回既有记录。
	// - 采用“先插入，唯一约束冲突后回查”的两步协议：并发写同一内容键时，
	//   由数据库的唯一约束仲裁，恰好一个写入者成功，其余回查拿到同一行。
	// - 返回 created=true 表示本次调用真正插入了新行。
	InsertIfAbsent(ctx context.Context, image *entities.Image) (result *entities.Image, created bool, err error)

	// GetByID 根据主键检索图片信息。
	// - 未找到时返回 commonerrors.ErrRepoNotFound。
	GetByID(ctx context.Context, id uint64) (*entities.Image, error)

	// ListImages 按创建时间倒序分页列出图片。
	// - 返回: 图片列表, 符合条件的总记录数, 错误。
	ListImages(ctx context.Context, offset, limit int) ([]*entities.Image, int64, error)
}

// imageRepository 是 ImageRepository 接口针对 PostgreSQL 的具体实现。
type imageRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewImageRepository 是 imageRepository 的构造函数。
func NewImageRepository(db *gorm.DB, logger *core.ZapLogger) ImageRepository {
	return &imageRepository{
		db:     db,
		logger: logger,
	}
}

// FindByKey 实现按内容键的单行查询。
func (r *imageRepository) FindByKey(ctx context.Context, imageKey string) (*entities.Image, error) {
	var image entities.Image
	err := r.db.WithContext(ctx).Where("image_key = ?", imageKey).First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("按内容键查询图片失败", zap.String("imageKey", imageKey), zap.Error(err))
		return nil, fmt.Errorf("按内容键查询图片失败: %w", err)
	}
	return &image, nil
}

// InsertIfAbsent 实现“不存在则插入”的两步协议。
// 依赖 gorm.Config.TranslateError：唯一约束冲突被翻译为 gorm.ErrDuplicatedKey。
func (r *imageRepository) InsertIfAbsent(ctx context.Context, image *entities.Image) (*entities.Image, bool, error) {
	err := r.db.WithContext(ctx).Create(image).Error
	if err == nil {
		return image, true, nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// 并发竞争中输掉了插入，回查赢家写入的那一行。
		r.logger.Info("图片内容键已存在，转为读取既有记录",
			zap.String("imageKey", image.ImageKey))
		existing, findErr := r.FindByKey(ctx, image.ImageKey)
		if findErr != nil {
			// 冲突说明行存在，回查却没拿到，多半是极端的删除竞争。
			r.logger.Error("唯一键冲突后回查图片失败",
				zap.String("imageKey", image.ImageKey), zap.Error(findErr))
			return nil, false, fmt.Errorf("唯一键冲突后回查图片失败: %w", findErr)
		}
		return existing, false, nil
	}

	r.logger.Error("插入图片记录失败", zap.String("imageKey", image.ImageKey), zap.Error(err))
	return nil, false, fmt.Errorf("插入图片记录失败: %w", err)
}

// GetByID 实现按主键的单行查询。
func (r *imageRepository) GetByID(ctx context.Context, id uint64) (*entities.Image, error) {
	var image entities.Image
	err := r.db.WithContext(ctx).First(&image, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("按 ID 查询图片失败", zap.Uint64("imageID", id), zap.Error(err))
		return nil, fmt.Errorf("按 ID 查询图片失败: %w", err)
	}
	return &image, nil
}

// ListImages 实现偏移分页的列表查询。
func (r *imageRepository) ListImages(ctx context.Context, offset, limit int) ([]*entities.Image, int64, error) {
	var images []*entities.Image
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.Image{})

	if err := query.Count(&total).Error; err != nil {
		r.logger.Error("统计图片总数失败", zap.Error(err))
		return nil, 0, fmt.Errorf("统计图片总数失败: %w", err)
	}

	err := query.Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&images).Error
	if err != nil {
		r.logger.Error("分页查询图片列表失败",
			zap.Int("offset", offset), zap.Int("limit", limit), zap.Error(err))
		return nil, 0, fmt.Errorf("分页查询图片列表失败: %w", err)
	}

	return images, total, nil
}
