package utils

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // 注册 GIF 解码器
	_ "image/jpeg" // 注册 JPEG 解码器
	_ "image/png"  // 注册 PNG 解码器

	"github.com/Xushengqwer/image_search_service/myErrors"
)

// ImageMetadata 一张图片的技术元数据。
type ImageMetadata struct {
	Width     int    // 宽度（像素）
	Height    int    // 高度（像素）
	Format    string // 解码器报告的格式名，例如 "jpeg"、"png"
	SizeBytes int64  // 原始字节数
}

// ExtractImageMetadata 从原始字节中提取宽、高、格式和字节数。
// - 只解析图片头部 (image.DecodeConfig)，不做全量解码。
// - 字节无法被已注册的解码器识别时返回 myErrors.ErrImageDecode；
//   入库流水线对此的策略是中止整个调用——元数据完整性是后续消费方的前提，
//   不接受“存图但元数据为空”的折中。
func ExtractImageMetadata(data []byte) (*ImageMetadata, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: 空字节流", myErrors.ErrImageDecode)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", myErrors.ErrImageDecode, err)
	}

	return &ImageMetadata{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Format:    format,
		SizeBytes: int64(len(data)),
	}, nil
}
