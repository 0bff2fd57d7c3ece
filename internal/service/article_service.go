package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nsxzhou1114/blog-article-api/internal/metrics"
	"github.com/nsxzhou1114/blog-article-api/internal/model"
	"github.com/nsxzhou1114/blog-article-api/internal/repository"
	"go.uber.org/zap"
)

// ArticleService 文章服务
type ArticleService struct {
	repo    repository.ArticleRepository
	log     *zap.SugaredLogger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option 文章服务可选配置
type Option func(*ArticleService)

// WithMetrics 记录操作指标
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *ArticleService) { s.metrics = m }
}

// WithClock 指定时间源
func WithClock(now func() time.Time) Option {
	return func(s *ArticleService) { s.now = now }
}

// NewArticleService 创建文章服务实例
func NewArticleService(repo repository.ArticleRepository, log *zap.SugaredLogger, opts ...Option) *ArticleService {
	s := &ArticleService{
		repo: repo,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// record 记录操作结果
func (s *ArticleService) record(op string, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveOperation(op, resultOf(err))
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, model.ErrValidation):
		return "invalid"
	case errors.Is(err, model.ErrInvalidID):
		return "invalid_id"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}

// Create 创建文章
func (s *ArticleService) Create(ctx context.Context, in model.ArticleInput) (article *model.Article, err error) {
	defer func() { s.record("create", err) }()

	article, err = model.NewArticle(in, s.now())
	if err != nil {
		return nil, err
	}

	s.log.Infow("保存文章", "title", article.Title)
	if err := s.repo.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	s.log.Infow("文章已保存", "id", article.ID)
	return article, nil
}

// ListAll 获取全部文章，按创建时间倒序
func (s *ArticleService) ListAll(ctx context.Context) (articles []*model.Article, err error) {
	defer func() { s.record("list", err) }()

	articles, err = s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

// ListPublished 获取已发布文章，按创建时间倒序
func (s *ArticleService) ListPublished(ctx context.Context) (articles []*model.Article, err error) {
	defer func() { s.record("list_published", err) }()

	published := true
	articles, err = s.repo.FindByFilter(ctx, repository.ArticleFilter{Published: &published})
	if err != nil {
		return nil, fmt.Errorf("list published articles: %w", err)
	}
	return articles, nil
}

// ListByCategory 获取指定分类下的已发布文章
func (s *ArticleService) ListByCategory(ctx context.Context, category string) (articles []*model.Article, err error) {
	defer func() { s.record("list_category", err) }()

	c, err := model.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	published := true
	articles, err = s.repo.FindByFilter(ctx, repository.ArticleFilter{Published: &published, Category: &c})
	if err != nil {
		return nil, fmt.Errorf("list articles by category: %w", err)
	}
	return articles, nil
}

// storageError 领域错误原样返回，其余错误附加操作名
func storageError(op string, err error) error {
	if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrInvalidID) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

// find 校验ID并读取最新状态
func (s *ArticleService) find(ctx context.Context, id string) (*model.Article, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageError("get article", err)
	}
	return article, nil
}

// GetByID 获取文章详情，每次读取都计入浏览量。
// 只递增 viewCount，不回写读取时的其他字段。
func (s *ArticleService) GetByID(ctx context.Context, id string) (article *model.Article, err error) {
	defer func() { s.record("get", err) }()

	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	article, err = s.repo.IncrementViews(ctx, id, s.now())
	if err != nil {
		return nil, storageError("get article", err)
	}
	if s.metrics != nil {
		s.metrics.ArticleViews.Inc()
	}
	return article, nil
}

// Update 合并更新字段，校验通过后保存
func (s *ArticleService) Update(ctx context.Context, id string, patch model.ArticlePatch) (article *model.Article, err error) {
	defer func() { s.record("update", err) }()

	article, err = s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := article.Apply(patch, s.now()); err != nil {
		return nil, err
	}

	s.log.Infow("保存文章", "id", article.ID, "title", article.Title)
	if err := s.repo.Update(ctx, article); err != nil {
		return nil, storageError("update article", err)
	}
	s.log.Infow("文章已保存", "id", article.ID)
	return article, nil
}

// Delete 删除文章，返回删除前的状态
func (s *ArticleService) Delete(ctx context.Context, id string) (article *model.Article, err error) {
	defer func() { s.record("delete", err) }()

	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	article, err = s.repo.Delete(ctx, id)
	if err != nil {
		return nil, storageError("delete article", err)
	}
	s.log.Infow("文章已删除", "id", article.ID, "title", article.Title)
	return article, nil
}

// Publish 发布文章，重复发布不报错
func (s *ArticleService) Publish(ctx context.Context, id string) (article *model.Article, err error) {
	defer func() { s.record("publish", err) }()
	return s.setPublished(ctx, id, true)
}

// Unpublish 取消发布
func (s *ArticleService) Unpublish(ctx context.Context, id string) (article *model.Article, err error) {
	defer func() { s.record("unpublish", err) }()
	return s.setPublished(ctx, id, false)
}

// setPublished 只修改发布状态，其余字段保持存储中的值
func (s *ArticleService) setPublished(ctx context.Context, id string, published bool) (*model.Article, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	article, err := s.repo.SetPublished(ctx, id, published, s.now())
	if err != nil {
		return nil, storageError("set article published", err)
	}
	s.log.Infow("文章发布状态已更新", "id", article.ID, "published", article.Published)
	return article, nil
}
