package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/blog-article-api/internal/dto"
	"github.com/nsxzhou1114/blog-article-api/internal/service"
	"github.com/nsxzhou1114/blog-article-api/pkg/response"
	"go.uber.org/zap"
)

// ArticleApi 文章控制器
type ArticleApi struct {
	logger         *zap.SugaredLogger
	articleService *service.ArticleService
}

// NewArticleApi 创建文章控制器实例
func NewArticleApi(articleService *service.ArticleService, log *zap.SugaredLogger) *ArticleApi {
	return &ArticleApi{
		logger:         log,
		articleService: articleService,
	}
}

// List 获取全部文章
func (api *ArticleApi) List(c *gin.Context) {
	articles, err := api.articleService.ListAll(c.Request.Context())
	if err != nil {
		api.fail(c, "Failed to fetch articles", err)
		return
	}
	response.List(c, dto.NewArticleResponses(articles))
}

// ListPublished 获取已发布文章
func (api *ArticleApi) ListPublished(c *gin.Context) {
	articles, err := api.articleService.ListPublished(c.Request.Context())
	if err != nil {
		api.fail(c, "Failed to fetch published articles", err)
		return
	}
	response.List(c, dto.NewArticleResponses(articles))
}

// ListByCategory 获取分类下的已发布文章
func (api *ArticleApi) ListByCategory(c *gin.Context) {
	articles, err := api.articleService.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		api.fail(c, "Failed to fetch articles by category", err)
		return
	}
	response.List(c, dto.NewArticleResponses(articles))
}

// Create 创建文章
func (api *ArticleApi) Create(c *gin.Context) {
	var req dto.ArticleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	article, err := api.articleService.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		api.fail(c, "Failed to create article", err)
		return
	}
	response.Created(c, "Article created successfully", dto.NewArticleResponse(article))
}

// GetDetail 获取文章详情
func (api *ArticleApi) GetDetail(c *gin.Context) {
	article, err := api.articleService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.fail(c, "Failed to fetch article", err)
		return
	}
	response.Success(c, "", dto.NewArticleResponse(article))
}

// Update 更新文章
func (api *ArticleApi) Update(c *gin.Context) {
	var req dto.ArticleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	article, err := api.articleService.Update(c.Request.Context(), c.Param("id"), req.ToPatch())
	if err != nil {
		api.fail(c, "Failed to update article", err)
		return
	}
	response.Success(c, "Article updated successfully", dto.NewArticleResponse(article))
}

// Delete 删除文章
func (api *ArticleApi) Delete(c *gin.Context) {
	article, err := api.articleService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.fail(c, "Failed to delete article", err)
		return
	}
	response.Success(c, "Article deleted successfully", dto.NewArticleResponse(article))
}

// Publish 发布文章
func (api *ArticleApi) Publish(c *gin.Context) {
	article, err := api.articleService.Publish(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.fail(c, "Failed to publish article", err)
		return
	}
	response.Success(c, "Article published successfully", dto.NewArticleResponse(article))
}

// Unpublish 取消发布文章
func (api *ArticleApi) Unpublish(c *gin.Context) {
	article, err := api.articleService.Unpublish(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.fail(c, "Failed to unpublish article", err)
		return
	}
	response.Success(c, "Article unpublished successfully", dto.NewArticleResponse(article))
}

// fail 按错误类型返回对应状态码，服务端错误记录日志
func (api *ArticleApi) fail(c *gin.Context, message string, err error) {
	switch status := writeError(c, message, err); {
	case status == StatusClientClosedRequest:
		api.logger.Infow("客户端已断开", "path", c.FullPath(), "id", c.Param("id"))
	case status >= http.StatusInternalServerError:
		api.logger.Errorw("文章操作失败", "path", c.FullPath(), "id", c.Param("id"), "error", err)
	}
}
