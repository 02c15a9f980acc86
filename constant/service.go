package constant

// 服务标识常量，用于日志、链路追踪和 Swagger 文档。
const (
	ServiceName    = "image_search_service"
	ServiceVersion = "1.0.0"
)
