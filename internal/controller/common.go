package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/blog-article-api/internal/dto"
	"github.com/nsxzhou1114/blog-article-api/internal/model"
	"github.com/nsxzhou1114/blog-article-api/pkg/response"
)

// StatusClientClosedRequest 客户端在响应前断开连接
const StatusClientClosedRequest = 499

// writeError 把领域错误映射为HTTP响应，返回状态码
func writeError(c *gin.Context, message string, err error) int {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationFailed(c, verr.Messages())
		return http.StatusBadRequest
	case errors.Is(err, model.ErrInvalidID):
		response.BadRequest(c, "Invalid article ID", err)
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		response.NotFound(c, "Article not found", err)
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		response.Error(c, http.StatusGatewayTimeout, "Request timed out", err)
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		response.Error(c, StatusClientClosedRequest, "Request canceled", err)
		return StatusClientClosedRequest
	default:
		response.InternalServerError(c, message, err)
		return http.StatusInternalServerError
	}
}

// Pinger 可检查连通性的存储
type Pinger interface {
	Backend() string
	Ping(ctx context.Context) error
}

// CommonApi 首页与健康检查
type CommonApi struct {
	version string
	storage Pinger
}

// NewCommonApi 创建通用控制器
func NewCommonApi(version string, storage Pinger) *CommonApi {
	return &CommonApi{version: version, storage: storage}
}

// Home 欢迎信息
func (api *CommonApi) Home(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HomeResponse{
		Message: "Welcome to the Blog API",
		Version: api.version,
		Status:  "running",
		Endpoints: map[string]string{
			"articles": "/api/articles",
		},
	})
}

// Health 健康检查，存储不可用时返回503
func (api *CommonApi) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := api.storage.Ping(ctx); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{
			Status:  "degraded",
			Storage: "down",
			Backend: api.storage.Backend(),
			Error:   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Storage: "up",
		Backend: api.storage.Backend(),
	})
}
