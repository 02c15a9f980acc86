package dto

// UploadImageRequest 定义了上传图片的请求数据结构
// - 图片文件本身作为 multipart/form-data 的 "file" 部分单独上传，不在 DTO 内。
// - 添加了 binding 标签用于输入验证
type UploadImageRequest struct {
	Caption string `json:"caption" form:"caption" binding:"required,max=512"` // 图片描述，必填，最大512字符
}

// ListImagesRequest 定义分页查询图片列表的请求数据结构
// - 添加了 form 和 binding 标签
type ListImagesRequest struct {
	Page     int `json:"page" form:"page" binding:"omitempty,gte=1"`                   // 页码 (从1开始)，缺省为1
	PageSize int `json:"page_size" form:"page_size" binding:"omitempty,gte=1,lte=100"` // 每页数量，缺省为10
}
