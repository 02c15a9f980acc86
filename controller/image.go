package controller

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/image_search_service/constant"
	"github.com/Xushengqwer/image_search_service/models/dto"
	"github.com/Xushengqwer/image_search_service/myErrors"
	"github.com/Xushengqwer/image_search_service/service"
)

// ImageController 定义图片控制器的结构体
type ImageController struct {
	ingestService service.IngestService     // 入库流水线，通过依赖注入传入
	queryService  service.ImageQueryService // 图片只读查询
	logger        *core.ZapLogger
}

// NewImageController 构造函数，用于创建 ImageController 实例
func NewImageController(ingestService service.IngestService, queryService service.ImageQueryService, logger *core.ZapLogger) *ImageController {
	return &ImageController{
		ingestService: ingestService,
		queryService:  queryService,
		logger:        logger,
	}
}

// UploadImage 处理图片上传（入库）的 HTTP 请求。
// @Summary      上传图片并附带描述
// @Description  上传一张图片及其自然语言描述。图片按内容哈希去重：重复上传同样的字节不会新建图片，只会为已有图片追加一条描述（响应中 is_duplicate=true）。请求体为 multipart/form-data。
// @Tags         images (图片)
// @Accept       multipart/form-data
// @Produce      json
// @Param        caption formData string true "图片描述" maxLength(512)
// @Param        file formData file true "图片文件 (jpg/jpeg/png, 最大 10MB)"
// @Success      200 {object} vo.UploadImageResponseWrapper "入库成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求负载、不支持的格式或图片无法解码"
// @Failure      500 {object} vo.BaseResponseWrapper "入库时发生内部服务器错误"
// @Router       /api/v1/images/upload [post]
func (ctrl *ImageController) UploadImage(c *gin.Context) {
	// 1. 绑定描述字段
	var reqDTO dto.UploadImageRequest
	if err := c.ShouldBind(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求参数: "+err.Error())
		return
	}

	// 2. 取出图片文件并做边界校验（大小、扩展名）
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "缺少图片文件: "+err.Error())
		return
	}
	if fileHeader.Size > constant.MaxImageSizeBytes {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "图片超过大小上限 (10MB)")
		return
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !constant.AllowedImageExtensions[ext] {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "不支持的图片格式: "+ext)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctrl.logger.Error("打开上传的图片文件失败", zap.String("filename", fileHeader.Filename), zap.Error(err))
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "读取图片文件失败")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		ctrl.logger.Error("读取上传的图片字节失败", zap.String("filename", fileHeader.Filename), zap.Error(err))
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "读取图片文件失败")
		return
	}

	// 3. 调用服务层入库
	result, err := ctrl.ingestService.IngestImage(c.Request.Context(), data, fileHeader.Filename, reqDTO.Caption)
	if err != nil {
		respondServiceError(c, err, "图片入库失败")
		return
	}

	// 4. 成功响应
	response.RespondSuccess(c, result, "图片入库成功")
}

// GetImageDetail 获取单张图片的元数据。
// @Summary      获取图片详情
// @Description  按内容键获取图片的宽高、格式、字节数等元数据。
// @Tags         images (图片)
// @Produce      json
// @Param        image_key path string true "图片内容键"
// @Success      200 {object} vo.ImageDetailResponseWrapper "成功响应"
// @Failure      404 {object} vo.BaseResponseWrapper "图片不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/images/detail/{image_key} [get]
func (ctrl *ImageController) GetImageDetail(c *gin.Context) {
	imageKey := c.Param("image_key")
	if imageKey == "" {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "缺少图片内容键")
		return
	}

	detail, err := ctrl.queryService.GetImageDetailByKey(c.Request.Context(), imageKey)
	if err != nil {
		respondServiceError(c, err, "获取图片详情失败")
		return
	}

	response.RespondSuccess(c, detail, "图片详情获取成功")
}

// ViewImage 返回图片的原始字节流。
// @Summary      查看图片
// @Description  按内容键读取图片的原始字节，Content-Type 由图片格式决定。
// @Tags         images (图片)
// @Produce      image/jpeg
// @Produce      image/png
// @Param        image_key path string true "图片内容键"
// @Success      200 {file} binary "图片字节流"
// @Failure      404 {object} vo.BaseResponseWrapper "图片不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/images/view/{image_key} [get]
func (ctrl *ImageController) ViewImage(c *gin.Context) {
	imageKey := c.Param("image_key")
	if imageKey == "" {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "缺少图片内容键")
		return
	}

	reader, image, err := ctrl.queryService.GetImageObject(c.Request.Context(), imageKey)
	if err != nil {
		respondServiceError(c, err, "读取图片失败")
		return
	}
	defer func() { _ = reader.Close() }()

	contentType := "application/octet-stream"
	if image.Format != nil && *image.Format != "" {
		contentType = "image/" + *image.Format
	}

	c.DataFromReader(http.StatusOK, image.SizeBytes, contentType, reader, nil)
}

// GetImageCaptions 列出图片的全部描述。
// @Summary      获取图片的描述列表
// @Description  按内容键列出一张图片累计的所有描述（每次重复入库都会追加一条）。
// @Tags         images (图片)
// @Produce      json
// @Param        image_key path string true "图片内容键"
// @Success      200 {object} vo.ImageCaptionsResponseWrapper "成功响应"
// @Failure      404 {object} vo.BaseResponseWrapper "图片不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/images/{image_key}/captions [get]
func (ctrl *ImageController) GetImageCaptions(c *gin.Context) {
	imageKey := c.Param("image_key")
	if imageKey == "" {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "缺少图片内容键")
		return
	}

	captions, err := ctrl.queryService.GetImageCaptions(c.Request.Context(), imageKey)
	if err != nil {
		respondServiceError(c, err, "获取图片描述列表失败")
		return
	}

	response.RespondSuccess(c, captions, "图片描述列表获取成功")
}

// ListImages 分页列出图片。
// @Summary      获取图片列表
// @Description  按创建时间倒序分页列出库中图片的元数据。
// @Tags         images (图片)
// @Produce      json
// @Param        page query int false "页码 (从1开始)" format(int32) minimum(1) default(1)
// @Param        page_size query int false "每页数量" format(int32) minimum(1) maximum(100) default(10)
// @Success      200 {object} vo.ImageListResponseWrapper "成功响应，包含图片列表和总记录数"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的查询参数"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/images [get]
func (ctrl *ImageController) ListImages(c *gin.Context) {
	var reqDTO dto.ListImagesRequest
	if err := c.ShouldBindQuery(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	list, err := ctrl.queryService.ListImages(c.Request.Context(), reqDTO.Page, reqDTO.PageSize)
	if err != nil {
		respondServiceError(c, err, "获取图片列表失败")
		return
	}

	response.RespondSuccess(c, list, "图片列表获取成功")
}

// RegisterRoutes 注册 ImageController 的路由
func (ctrl *ImageController) RegisterRoutes(group *gin.RouterGroup) {
	images := group.Group("/images")
	{
		images.POST("/upload", ctrl.UploadImage)                  // POST /api/v1/images/upload
		images.GET("", ctrl.ListImages)                           // GET  /api/v1/images
		images.GET("/detail/:image_key", ctrl.GetImageDetail)     // GET  /api/v1/images/detail/:image_key
		images.GET("/view/:image_key", ctrl.ViewImage)            // GET  /api/v1/images/view/:image_key
		images.GET("/:image_key/captions", ctrl.GetImageCaptions) // GET  /api/v1/images/:image_key/captions
	}
}

// respondServiceError 将服务层错误映射为统一的 HTTP 响应。
// - 调用方错误 (无效输入/无法解码) -> 400
// - 未找到 -> 404
// - 其余（含向量化失败、存储失配）-> 500
func respondServiceError(c *gin.Context, err error, prefix string) {
	switch {
	case errors.Is(err, myErrors.ErrInvalidInput), errors.Is(err, myErrors.ErrImageDecode):
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, prefix+": "+err.Error())
	case errors.Is(err, commonerrors.ErrRepoNotFound):
		response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, prefix+": 资源不存在")
	default:
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, prefix+": "+err.Error())
	}
}
