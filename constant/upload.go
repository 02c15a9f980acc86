package constant

// 图片上传相关限制。
const (
	// MaxImageSizeBytes 是单张图片允许的最大字节数 (10MB)。
	MaxImageSizeBytes = 10 << 20
)

// AllowedImageExtensions 是允许上传的图片扩展名（小写，含点号）。
// 与元数据提取器注册的解码器保持一致：jpeg/png 可上传，gif 仅保留解码能力。
var AllowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}
