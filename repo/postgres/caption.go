package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/image_search_service/models/entities"
	"github.com/Xushengqwer/image_search_service/myErrors"
)

// SearchHit 向量检索命中的一条结果。
// 距离由数据库的 <-> (L2) 算子计算，随结果行一起返回，服务层不再重算。
type SearchHit struct {
	ImageID  uint64  `gorm:"column:image_id"`
	ImageKey string  `gorm:"column:image_key"`
	Distance float64 `gorm:"column:distance"`
}

// CaptionRepository 定义了描述文本及其向量在 PostgreSQL 中的持久化操作接口。
type CaptionRepository interface {
	// CreateCaption 持久化一条描述记录（文本 + 向量）。
	// - 同一图片允许多条描述，语义重复的文本不做去重，各自成行。
	// - image_id 指向不存在的图片时，外键约束拒绝写入，
	//   翻译为 myErrors.ErrReferentialIntegrity 返回。
	CreateCaption(ctx context.Context, caption *entities.Caption) error

	// SearchByEmbedding 以查询向量做 L2 近邻检索，返回距离最小的 topK 条描述命中。
	// - 结果按距离升序；topK 以描述行为单位，同一图片的多条描述可各自命中。
	// - 库存少于 topK 时返回全部命中，不是错误。
	SearchByEmbedding(ctx context.Context, embedding pgvector.Vector, topK int) ([]*SearchHit, error)

	// GetCaptionsByImageID 列出指定图片的全部描述，按创建时间升序。
	GetCaptionsByImageID(ctx context.Context, imageID uint64) ([]*entities.Caption, error)
}

// captionRepository 是 CaptionRepository 接口针对 PostgreSQL 的具体实现。
type captionRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewCaptionRepository 是 captionRepository 的构造函数。
func NewCaptionRepository(db *gorm.DB, logger *core.ZapLogger) CaptionRepository {
	return &captionRepository{
		db:     db,
		logger: logger,
	}
}

// CreateCaption 实现描述记录的插入。
// 依赖 gorm.Config.TranslateError：外键冲突被翻译为 gorm.ErrForeignKeyViolated。
func (r *captionRepository) CreateCaption(ctx context.Context, caption *entities.Caption) error {
	if err := r.db.WithContext(ctx).Create(caption).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			r.logger.Error("描述指向不存在的图片，外键约束拒绝写入",
				zap.Uint64("imageID", caption.ImageID))
			return fmt.Errorf("%w: image_id=%d", myErrors.ErrReferentialIntegrity, caption.ImageID)
		}
		r.logger.Error("插入描述记录失败", zap.Uint64("imageID", caption.ImageID), zap.Error(err))
		return fmt.Errorf("插入描述记录失败: %w", err)
	}
	return nil
}

// SearchByEmbedding 实现向量近邻检索。
// 连表取回 image_key，排序与距离都交给 pgvector 的 <-> 算子。
func (r *captionRepository) SearchByEmbedding(ctx context.Context, embedding pgvector.Vector, topK int) ([]*SearchHit, error) {
	var hits []*SearchHit

	err := r.db.WithContext(ctx).
		Model(&entities.Caption{}).
		Select("captions.image_id AS image_id, images.image_key AS image_key, captions.caption_embedding <-> ? AS distance", embedding).
		Joins("JOIN images ON images.id = captions.image_id").
		Order("distance ASC").
		Limit(topK).
		Scan(&hits).Error
	if err != nil {
		r.logger.Error("向量近邻检索失败", zap.Int("topK", topK), zap.Error(err))
		return nil, fmt.Errorf("向量近邻检索失败: %w", err)
	}

	return hits, nil
}

// GetCaptionsByImageID 实现指定图片的描述列表查询。
func (r *captionRepository) GetCaptionsByImageID(ctx context.Context, imageID uint64) ([]*entities.Caption, error) {
	var captions []*entities.Caption
	err := r.db.WithContext(ctx).
		Where("image_id = ?", imageID).
		Order("created_at ASC, id ASC").
		Find(&captions).Error
	if err != nil {
		r.logger.Error("查询图片描述列表失败", zap.Uint64("imageID", imageID), zap.Error(err))
		return nil, fmt.Errorf("查询图片描述列表失败: %w", err)
	}
	return captions, nil
}
