package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nsxzhou1114/blog-article-api/internal/model"
	"gorm.io/gorm"
)

// articleRecord 文章表结构
type articleRecord struct {
	ID        string    `gorm:"type:char(24);primaryKey"`
	Title     string    `gorm:"type:varchar(200);not null"`
	Body      string    `gorm:"type:text;not null"`
	Author    string    `gorm:"type:varchar(100);not null"`
	Published bool      `gorm:"not null;default:false;index:idx_articles_published_created,priority:1"`
	Category  string    `gorm:"type:varchar(20);not null;default:'Other';index"`
	ViewCount int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"index:idx_articles_published_created,priority:2;index"`
	UpdatedAt time.Time
}

// TableName 指定表名
func (articleRecord) TableName() string {
	return "articles"
}

func toRecord(a *model.Article) *articleRecord {
	return &articleRecord{
		ID:        a.ID,
		Title:     a.Title,
		Body:      a.Body,
		Author:    a.Author,
		Published: a.Published,
		Category:  string(a.Category),
		ViewCount: a.ViewCount,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (r *articleRecord) toModel() *model.Article {
	return &model.Article{
		ID:        r.ID,
		Title:     r.Title,
		Body:      r.Body,
		Author:    r.Author,
		Published: r.Published,
		Category:  model.Category(r.Category),
		ViewCount: r.ViewCount,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// AutoMigrate 初始化文章表
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&articleRecord{}); err != nil {
		return fmt.Errorf("自动迁移文章表失败: %w", err)
	}
	return nil
}

// GormArticleRepository 基于 gorm 的文章仓储
type GormArticleRepository struct {
	db *gorm.DB
}

// NewGormArticleRepository 创建 gorm 文章仓储
func NewGormArticleRepository(db *gorm.DB) *GormArticleRepository {
	return &GormArticleRepository{db: db}
}

// Create 保存新文章，ID 为空时自动生成
func (r *GormArticleRepository) Create(ctx context.Context, article *model.Article) error {
	if article.ID == "" {
		article.ID = model.NewID()
	}
	if err := model.ValidateID(article.ID); err != nil {
		return err
	}
	truncateTimes(article)
	if err := r.db.WithContext(ctx).Create(toRecord(article)).Error; err != nil {
		return fmt.Errorf("插入文章失败: %w", err)
	}
	return nil
}

// FindByID 根据ID查询文章
func (r *GormArticleRepository) FindByID(ctx context.Context, id string) (*model.Article, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	var rec articleRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("查询文章失败: %w", err)
	}
	return rec.toModel(), nil
}

// FindAll 查询全部文章
func (r *GormArticleRepository) FindAll(ctx context.Context) ([]*model.Article, error) {
	return r.FindByFilter(ctx, ArticleFilter{})
}

// FindByFilter 按条件查询文章
func (r *GormArticleRepository) FindByFilter(ctx context.Context, filter ArticleFilter) ([]*model.Article, error) {
	query := r.db.WithContext(ctx).Model(&articleRecord{})
	if filter.Published != nil {
		query = query.Where("published = ?", *filter.Published)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", string(*filter.Category))
	}

	var recs []articleRecord
	if err := query.Order("created_at DESC").Order("id DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("查询文章列表失败: %w", err)
	}

	articles := make([]*model.Article, 0, len(recs))
	for i := range recs {
		articles = append(articles, recs[i].toModel())
	}
	return articles, nil
}

// Update 保存文章的可变字段
func (r *GormArticleRepository) Update(ctx context.Context, article *model.Article) error {
	if err := model.ValidateID(article.ID); err != nil {
		return err
	}
	truncateTimes(article)
	res := r.db.WithContext(ctx).Model(&articleRecord{}).
		Where("id = ?", article.ID).
		UpdateColumns(map[string]interface{}{
			"title":      article.Title,
			"body":       article.Body,
			"author":     article.Author,
			"published":  article.Published,
			"category":   string(article.Category),
			"view_count": article.ViewCount,
			"updated_at": article.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("更新文章失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// MySQL 在值未变化时影响行数为0，需要再确认记录是否存在
		var count int64
		if err := r.db.WithContext(ctx).Model(&articleRecord{}).Where("id = ?", article.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("查询文章失败: %w", err)
		}
		if count == 0 {
			return model.ErrNotFound
		}
	}
	return nil
}

// IncrementViews 浏览量原子加一
func (r *GormArticleRepository) IncrementViews(ctx context.Context, id string, at time.Time) (*model.Article, error) {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"view_count": gorm.Expr("view_count + ?", 1),
		"updated_at": at.Truncate(time.Millisecond),
	})
}

// SetPublished 修改发布状态
func (r *GormArticleRepository) SetPublished(ctx context.Context, id string, published bool, at time.Time) (*model.Article, error) {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"published":  published,
		"updated_at": at.Truncate(time.Millisecond),
	})
}

// updateColumns 在事务内只更新指定列，并读回更新后的记录
func (r *GormArticleRepository) updateColumns(ctx context.Context, id string, columns map[string]interface{}) (*model.Article, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	var rec articleRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&articleRecord{}).Where("id = ?", id).UpdateColumns(columns).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&rec).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("更新文章失败: %w", err)
	}
	return rec.toModel(), nil
}

// Delete 删除文章并返回删除前的状态
func (r *GormArticleRepository) Delete(ctx context.Context, id string) (*model.Article, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	var deleted *model.Article
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec articleRecord
		if err := tx.Where("id = ?", id).First(&rec).Error; err != nil {
			return err
		}
		if err := tx.Delete(&articleRecord{}, "id = ?", id).Error; err != nil {
			return err
		}
		deleted = rec.toModel()
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("删除文章失败: %w", err)
	}
	return deleted, nil
}
