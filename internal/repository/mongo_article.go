package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nsxzhou1114/blog-article-api/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ArticleCollection 文章集合名
const ArticleCollection = "articles"

// articleDocument 文章在 MongoDB 中的文档结构
type articleDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Title     string             `bson:"title"`
	Body      string             `bson:"body"`
	Author    string             `bson:"author"`
	Published bool               `bson:"published"`
	Category  string             `bson:"category"`
	ViewCount int                `bson:"viewCount"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func toDocument(a *model.Article) (*articleDocument, error) {
	oid, err := primitive.ObjectIDFromHex(a.ID)
	if err != nil {
		return nil, model.ErrInvalidID
	}
	return &articleDocument{
		ID:        oid,
		Title:     a.Title,
		Body:      a.Body,
		Author:    a.Author,
		Published: a.Published,
		Category:  string(a.Category),
		ViewCount: a.ViewCount,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}, nil
}

func (d *articleDocument) toModel() *model.Article {
	return &model.Article{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Body:      d.Body,
		Author:    d.Author,
		Published: d.Published,
		Category:  model.Category(d.Category),
		ViewCount: d.ViewCount,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// mongoFilter 把查询条件转换为 bson 过滤器
func mongoFilter(f ArticleFilter) bson.M {
	m := bson.M{}
	if f.Published != nil {
		m["published"] = *f.Published
	}
	if f.Category != nil {
		m["category"] = string(*f.Category)
	}
	return m
}

// MongoArticleRepository 基于 MongoDB 的文章仓储
type MongoArticleRepository struct {
	coll *mongo.Collection
}

// NewMongoArticleRepository 创建 MongoDB 文章仓储
func NewMongoArticleRepository(db *mongo.Database) *MongoArticleRepository {
	return &MongoArticleRepository{coll: db.Collection(ArticleCollection)}
}

// EnsureIndexes 创建列表查询所需索引
func (r *MongoArticleRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "published", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "published", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("创建文章索引失败: %w", err)
	}
	return nil
}

// Create 保存新文章，ID 为空时自动生成
func (r *MongoArticleRepository) Create(ctx context.Context, article *model.Article) error {
	if article.ID == "" {
		article.ID = model.NewID()
	}
	truncateTimes(article)
	doc, err := toDocument(article)
	if err != nil {
		return err
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("插入文章失败: %w", err)
	}
	return nil
}

// FindByID 根据ID查询文章
func (r *MongoArticleRepository) FindByID(ctx context.Context, id string) (*model.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrInvalidID
	}
	var doc articleDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("查询文章失败: %w", err)
	}
	return doc.toModel(), nil
}

// FindAll 查询全部文章
func (r *MongoArticleRepository) FindAll(ctx context.Context) ([]*model.Article, error) {
	return r.FindByFilter(ctx, ArticleFilter{})
}

// FindByFilter 按条件查询文章
func (r *MongoArticleRepository) FindByFilter(ctx context.Context, filter ArticleFilter) ([]*model.Article, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, mongoFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("查询文章列表失败: %w", err)
	}

	var docs []articleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("读取文章列表失败: %w", err)
	}

	articles := make([]*model.Article, 0, len(docs))
	for i := range docs {
		articles = append(articles, docs[i].toModel())
	}
	return articles, nil
}

// Update 保存文章的可变字段
func (r *MongoArticleRepository) Update(ctx context.Context, article *model.Article) error {
	truncateTimes(article)
	doc, err := toDocument(article)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": bson.M{
		"title":     doc.Title,
		"body":      doc.Body,
		"author":    doc.Author,
		"published": doc.Published,
		"category":  doc.Category,
		"viewCount": doc.ViewCount,
		"updatedAt": doc.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("更新文章失败: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

// IncrementViews 浏览量原子加一
func (r *MongoArticleRepository) IncrementViews(ctx context.Context, id string, at time.Time) (*model.Article, error) {
	return r.findAndUpdate(ctx, id, bson.M{
		"$inc": bson.M{"viewCount": 1},
		"$set": bson.M{"updatedAt": at.Truncate(time.Millisecond)},
	})
}

// SetPublished 修改发布状态
func (r *MongoArticleRepository) SetPublished(ctx context.Context, id string, published bool, at time.Time) (*model.Article, error) {
	return r.findAndUpdate(ctx, id, bson.M{
		"$set": bson.M{"published": published, "updatedAt": at.Truncate(time.Millisecond)},
	})
}

// findAndUpdate 按ID执行更新并返回更新后的文档
func (r *MongoArticleRepository) findAndUpdate(ctx context.Context, id string, update bson.M) (*model.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrInvalidID
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc articleDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("更新文章失败: %w", err)
	}
	return doc.toModel(), nil
}

// Delete 删除文章并返回删除前的状态
func (r *MongoArticleRepository) Delete(ctx context.Context, id string) (*model.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrInvalidID
	}
	var doc articleDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("删除文章失败: %w", err)
	}
	return doc.toModel(), nil
}
