package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/blog-article-api/internal/controller"
	"github.com/nsxzhou1114/blog-article-api/internal/logger"
	"github.com/nsxzhou1114/blog-article-api/internal/metrics"
	"github.com/nsxzhou1114/blog-article-api/internal/middleware"
	"github.com/nsxzhou1114/blog-article-api/internal/service"
	"go.uber.org/zap"
)

// Deps 路由依赖
type Deps struct {
	Version        string
	RequestTimeout time.Duration
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	Storage        controller.Pinger
	ArticleService *service.ArticleService
}

// New 创建 gin 引擎并注册中间件与路由
func New(deps Deps) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(logger.GinLogger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
	}
	r.Use(middleware.Timeout(deps.RequestTimeout))

	Setup(r, deps)
	return r
}

// Setup 设置API路由
func Setup(r *gin.Engine, deps Deps) {
	commonApi := controller.NewCommonApi(deps.Version, deps.Storage)
	r.GET("/", commonApi.Home)
	r.GET("/health", commonApi.Health)
	if deps.Metrics != nil {
		r.GET("/metrics", deps.Metrics.Handler())
	}

	// API 路由组
	api := r.Group("/api")

	// 文章相关路由
	setupArticleRoutes(api, controller.NewArticleApi(deps.ArticleService, deps.Logger.Sugar()))
}

// setupArticleRoutes 设置文章相关路由，静态路径需在 /:id 之前注册
func setupArticleRoutes(api *gin.RouterGroup, articleApi *controller.ArticleApi) {
	articleRoutes := api.Group("/articles")
	{
		articleRoutes.GET("", articleApi.List)
		articleRoutes.POST("", articleApi.Create)
		articleRoutes.GET("/published", articleApi.ListPublished)
		articleRoutes.GET("/category/:category", articleApi.ListByCategory)
		articleRoutes.GET("/:id", articleApi.GetDetail)
		articleRoutes.PUT("/:id", articleApi.Update)
		articleRoutes.DELETE("/:id", articleApi.Delete)
		articleRoutes.PATCH("/:id/publish", articleApi.Publish)
		articleRoutes.PATCH("/:id/unpublish", articleApi.Unpublish)
	}
}
