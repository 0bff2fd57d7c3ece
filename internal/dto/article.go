package dto

import (
	"time"

	"github.com/nsxzhou1114/blog-article-api/internal/model"
)

// ArticleCreateRequest 创建文章请求
type ArticleCreateRequest struct {
	Title    string `json:"title"`    // 文章标题
	Body     string `json:"body"`     // 文章内容
	Content  string `json:"content"`  // body 的别名
	Author   string `json:"author"`   // 作者
	Category string `json:"category"` // 分类
}

// ToInput 转换为领域输入，body 为空时使用 content
func (r *ArticleCreateRequest) ToInput() model.ArticleInput {
	body := r.Body
	if body == "" {
		body = r.Content
	}
	return model.ArticleInput{
		Title:    r.Title,
		Body:     body,
		Author:   r.Author,
		Category: r.Category,
	}
}

// ArticleUpdateRequest 更新文章请求，未出现的字段保持不变
type ArticleUpdateRequest struct {
	Title     *string `json:"title"`     // 文章标题
	Body      *string `json:"body"`      // 文章内容
	Content   *string `json:"content"`   // body 的别名
	Author    *string `json:"author"`    // 作者
	Category  *string `json:"category"`  // 分类
	Published *bool   `json:"published"` // 是否发布
	ViewCount *int    `json:"viewCount"` // 浏览量
}

// ToPatch 转换为领域更新
func (r *ArticleUpdateRequest) ToPatch() model.ArticlePatch {
	body := r.Body
	if body == nil {
		body = r.Content
	}
	return model.ArticlePatch{
		Title:     r.Title,
		Body:      body,
		Author:    r.Author,
		Category:  r.Category,
		Published: r.Published,
		ViewCount: r.ViewCount,
	}
}

// ArticleResponse 文章响应
type ArticleResponse struct {
	ID                   string    `json:"id"`                   // 文章ID
	Title                string    `json:"title"`                // 标题
	Body                 string    `json:"body"`                 // 内容
	Author               string    `json:"author"`               // 作者
	Published            bool      `json:"published"`            // 是否发布
	Category             string    `json:"category"`             // 分类
	ViewCount            int       `json:"viewCount"`            // 浏览量
	Summary              string    `json:"summary"`              // 摘要
	EstimatedReadMinutes int       `json:"estimatedReadMinutes"` // 预计阅读分钟数
	CreatedAt            time.Time `json:"createdAt"`            // 创建时间
	UpdatedAt            time.Time `json:"updatedAt"`            // 更新时间
}

// NewArticleResponse 构建文章响应
func NewArticleResponse(a *model.Article) ArticleResponse {
	return ArticleResponse{
		ID:                   a.ID,
		Title:                a.Title,
		Body:                 a.Body,
		Author:               a.Author,
		Published:            a.Published,
		Category:             string(a.Category),
		ViewCount:            a.ViewCount,
		Summary:              a.Summary(),
		EstimatedReadMinutes: a.EstimatedReadMinutes(),
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}

// NewArticleResponses 批量构建文章响应
func NewArticleResponses(articles []*model.Article) []ArticleResponse {
	out := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, NewArticleResponse(a))
	}
	return out
}

// HomeResponse 首页响应
type HomeResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Backend string `json:"backend"`
	Error   string `json:"error,omitempty"`
}
