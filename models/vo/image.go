package vo

import (
	"time"

	"github.com/Xushengqwer/image_search_service/models/entities"
)

// UploadImageVO 上传（入库）结果。
// - IsDuplicate 为 true 表示本次上传的字节与库中已有图片完全一致，
//   没有产生新的 Image 行，仅为已有图片追加了一条描述。
type UploadImageVO struct {
	ImageID     uint64 `json:"image_id"`
	ImageKey    string `json:"image_key"`
	CaptionID   uint64 `json:"caption_id"`
	IsDuplicate bool   `json:"is_duplicate"`
	Caption     string `json:"caption"`
}

// ImageDetailVO 单张图片的元数据视图。
type ImageDetailVO struct {
	ID        uint64    `json:"id"`
	ImageKey  string    `json:"image_key"`
	Width     *int      `json:"width,omitempty"`
	Height    *int      `json:"height,omitempty"`
	Format    *string   `json:"format,omitempty"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// NewImageDetailVOFromEntity 将 Image 实体转换为详情视图。
func NewImageDetailVOFromEntity(img *entities.Image) *ImageDetailVO {
	return &ImageDetailVO{
		ID:        img.ID,
		ImageKey:  img.ImageKey,
		Width:     img.Width,
		Height:    img.Height,
		Format:    img.Format,
		SizeBytes: img.SizeBytes,
		CreatedAt: img.CreatedAt,
	}
}

// ImageListVO 图片分页列表。
type ImageListVO struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Images   []*ImageDetailVO `json:"images"`
}

// CaptionVO 单条描述视图。
type CaptionVO struct {
	ID        uint64    `json:"id"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}

// ImageCaptionsVO 一张图片的全部描述。
type ImageCaptionsVO struct {
	ImageKey string      `json:"image_key"`
	Captions []CaptionVO `json:"captions"`
}
