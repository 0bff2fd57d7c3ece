package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/nsxzhou1114/blog-article-api/internal/database"
	"github.com/nsxzhou1114/blog-article-api/internal/model"
)

// ArticleFilter 文章查询条件，nil 字段不参与过滤
type ArticleFilter struct {
	Published *bool
	Category  *model.Category
}

// ArticleRepository 文章持久化接口。
// 查询结果按创建时间倒序，ID 相同时间时按 ID 倒序。
// 记录不存在时返回 model.ErrNotFound。
type ArticleRepository interface {
	Create(ctx context.Context, article *model.Article) error
	FindByID(ctx context.Context, id string) (*model.Article, error)
	FindAll(ctx context.Context) ([]*model.Article, error)
	FindByFilter(ctx context.Context, filter ArticleFilter) ([]*model.Article, error)
	// Update 写回文章的全部可变字段
	Update(ctx context.Context, article *model.Article) error
	// IncrementViews 浏览量原子加一，只写 viewCount 与 updatedAt，返回更新后的文章
	IncrementViews(ctx context.Context, id string, at time.Time) (*model.Article, error)
	// SetPublished 只修改发布状态与 updatedAt，返回更新后的文章
	SetPublished(ctx context.Context, id string, published bool, at time.Time) (*model.Article, error)
	// Delete 删除文章并返回删除前的状态
	Delete(ctx context.Context, id string) (*model.Article, error)
}

// truncateTimes 存储时间精度统一为毫秒（MongoDB 与 MySQL datetime(3)），写入前截断保证返回值与存储一致
func truncateTimes(a *model.Article) {
	a.CreatedAt = a.CreatedAt.Truncate(time.Millisecond)
	a.UpdatedAt = a.UpdatedAt.Truncate(time.Millisecond)
}

// NewArticleRepository 根据连接类型创建文章仓储，并初始化索引或表结构
func NewArticleRepository(ctx context.Context, conn database.Connector) (ArticleRepository, error) {
	switch c := conn.(type) {
	case *database.MongoConnector:
		repo := NewMongoArticleRepository(c.Database())
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	case *database.GormConnector:
		if err := AutoMigrate(c.DB().WithContext(ctx)); err != nil {
			return nil, err
		}
		return NewGormArticleRepository(c.DB()), nil
	default:
		return nil, fmt.Errorf("不支持的存储连接: %T", conn)
	}
}
