package vo

// --- 用于成功响应且包含具体 Data 的包装器 ---

// UploadImageResponseWrapper 对应 response.APIResponse[vo.UploadImageVO]
type UploadImageResponseWrapper struct {
	Code    int           `json:"code" example:"0"`
	Message string        `json:"message,omitempty" example:"success"`
	Data    UploadImageVO `json:"data"`
}

// ImageDetailResponseWrapper 对应 response.APIResponse[vo.ImageDetailVO]
type ImageDetailResponseWrapper struct {
	Code    int           `json:"code" example:"0"`
	Message string        `json:"message,omitempty" example:"success"`
	Data    ImageDetailVO `json:"data"`
}

// ImageListResponseWrapper 对应 response.APIResponse[vo.ImageListVO]
type ImageListResponseWrapper struct {
	Code    int         `json:"code" example:"0"`
	Message string      `json:"message,omitempty" example:"success"`
	Data    ImageListVO `json:"data"`
}

// ImageCaptionsResponseWrapper 对应 response.APIResponse[vo.ImageCaptionsVO]
type ImageCaptionsResponseWrapper struct {
	Code    int             `json:"code" example:"0"`
	Message string          `json:"message,omitempty" example:"success"`
	Data    ImageCaptionsVO `json:"data"`
}

// SemanticSearchResponseWrapper 对应 response.APIResponse[vo.SemanticSearchVO]
type SemanticSearchResponseWrapper struct {
	Code    int              `json:"code" example:"0"`
	Message string           `json:"message,omitempty" example:"success"`
	Data    SemanticSearchVO `json:"data"`
}

// BulkSearchResponseWrapper 对应 response.APIResponse[vo.BulkSearchVO]
type BulkSearchResponseWrapper struct {
	Code    int          `json:"code" example:"0"`
	Message string       `json:"message,omitempty" example:"success"`
	Data    BulkSearchVO `json:"data"`
}

// --- 用于错误响应 或 简单成功响应（只有 Code 和 Message） ---

// BaseResponseWrapper 代表一个只包含 Code 和 Message 的响应。
// 适用于错误情况（RespondError 返回时 Data 为 nil 且 omitempty）。
type BaseResponseWrapper struct {
	Code    int    `json:"code" example:"0"`          // 成功时为 0, 错误时为具体错误码
	Message string `json:"message" example:"success"` // 成功或错误消息
}
