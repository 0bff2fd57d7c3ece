package model

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// SummaryLength 摘要截取的字符数
	SummaryLength = 150
	// WordsPerMinute 估算阅读时长的阅读速度
	WordsPerMinute = 200
)

// Article 文章实体
type Article struct {
	ID        string    `json:"id"`
	Title     string    `json:"title" validate:"required,min=3,max=200"`
	Body      string    `json:"body" validate:"required,min=10"`
	Author    string    `json:"author" validate:"required,max=100"`
	Published bool      `json:"published"`
	Category  Category  `json:"category" validate:"category"`
	ViewCount int       `json:"viewCount" validate:"gte=0"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ArticleInput 创建文章的输入
type ArticleInput struct {
	Title    string
	Body     string
	Author   string
	Category string
}

// ArticlePatch 文章部分更新，nil 字段保持不变
type ArticlePatch struct {
	Title     *string
	Body      *string
	Author    *string
	Category  *string
	Published *bool
	ViewCount *int
}

// NewArticle 根据输入构建并校验文章，ID 由存储层生成
func NewArticle(in ArticleInput, now time.Time) (*Article, error) {
	a := &Article{
		Title:     strings.TrimSpace(in.Title),
		Body:      strings.TrimSpace(in.Body),
		Author:    strings.TrimSpace(in.Author),
		Category:  NormalizeCategory(in.Category),
		Published: false,
		ViewCount: 0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Apply 合并部分更新并重新校验，校验失败时文章保持原样
func (a *Article) Apply(p ArticlePatch, now time.Time) error {
	merged := *a
	if p.Title != nil {
		merged.Title = strings.TrimSpace(*p.Title)
	}
	if p.Body != nil {
		merged.Body = strings.TrimSpace(*p.Body)
	}
	if p.Author != nil {
		merged.Author = strings.TrimSpace(*p.Author)
	}
	if p.Category != nil {
		merged.Category = NormalizeCategory(*p.Category)
	}
	if p.Published != nil {
		merged.Published = *p.Published
	}
	if p.ViewCount != nil {
		merged.ViewCount = *p.ViewCount
	}
	if err := merged.Validate(); err != nil {
		return err
	}
	merged.touch(now)
	*a = merged
	return nil
}

// touch 刷新更新时间，保证 UpdatedAt 不早于 CreatedAt
func (a *Article) touch(now time.Time) {
	if now.Before(a.CreatedAt) {
		now = a.CreatedAt
	}
	a.UpdatedAt = now
}

// Summary 文章摘要，超出长度时追加省略号
func (a *Article) Summary() string {
	if utf8.RuneCountInString(a.Body) <= SummaryLength {
		return a.Body
	}
	runes := []rune(a.Body)
	return string(runes[:SummaryLength]) + "..."
}

// EstimatedReadMinutes 按每分钟200词估算阅读时长，向上取整
func (a *Article) EstimatedReadMinutes() int {
	words := len(strings.Fields(a.Body))
	return int(math.Ceil(float64(words) / WordsPerMinute))
}
