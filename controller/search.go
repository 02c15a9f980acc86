package controller

import (
	"net/http"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/image_search_service/models/dto"
	"github.com/Xushengqwer/image_search_service/service"
)

// SearchController 定义语义搜索控制器的结构体
type SearchController struct {
	searchService service.SearchService // 服务层接口，通过依赖注入传入
}

// NewSearchController 构造函数，用于创建 SearchController 实例
func NewSearchController(searchService service.SearchService) *SearchController {
	return &SearchController{
		searchService: searchService,
	}
}

// SemanticSearch 处理语义搜索请求。
// @Summary      语义搜索图片
// @Description  将查询文本向量化后在描述向量上做 L2 近邻检索，返回距离最小的若干条命中（按描述粒度，同一图片可能出现多次）。
// @Tags         search (搜索)
// @Produce      json
// @Param        query query string true "查询文本" maxLength(512)
// @Param        limit query int false "最大返回条数" format(int32) minimum(1) maximum(100) default(10)
// @Success      200 {object} vo.SemanticSearchResponseWrapper "成功响应，结果按相似度降序"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的查询参数"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/search/semantic [get]
func (ctrl *SearchController) SemanticSearch(c *gin.Context) {
	var reqDTO dto.SemanticSearchRequest
	if err := c.ShouldBindQuery(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	result, err := ctrl.searchService.SemanticSearch(c.Request.Context(), reqDTO.Query, reqDTO.Limit)
	if err != nil {
		respondServiceError(c, err, "语义搜索失败")
		return
	}

	response.RespondSuccess(c, result, "语义搜索成功")
}

// BulkSearch 处理批量语义搜索请求。
// @Summary      批量语义搜索
// @Description  对一组查询文本逐个执行语义搜索，结果按原始查询文本索引返回。
// @Tags         search (搜索)
// @Produce      json
// @Param        queries query []string true "查询文本列表 (重复传参: queries=a&queries=b, 最多20个)" collectionFormat(multi)
// @Param        limit_per_query query int false "每个查询的最大返回条数" format(int32) minimum(1) maximum(20) default(10)
// @Success      200 {object} vo.BulkSearchResponseWrapper "成功响应"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的查询参数"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/search/bulk [get]
func (ctrl *SearchController) BulkSearch(c *gin.Context) {
	var reqDTO dto.BulkSearchRequest
	if err := c.ShouldBindQuery(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	result, err := ctrl.searchService.BulkSearch(c.Request.Context(), reqDTO.Queries, reqDTO.LimitPerQuery)
	if err != nil {
		respondServiceError(c, err, "批量语义搜索失败")
		return
	}

	response.RespondSuccess(c, result, "批量语义搜索成功")
}

// RegisterRoutes 注册 SearchController 的路由
func (ctrl *SearchController) RegisterRoutes(group *gin.RouterGroup) {
	search := group.Group("/search")
	{
		search.GET("/semantic", ctrl.SemanticSearch) // GET /api/v1/search/semantic
		search.GET("/bulk", ctrl.BulkSearch)         // GET /api/v1/search/bulk
	}
}
