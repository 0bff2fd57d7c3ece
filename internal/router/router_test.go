package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/blog-article-api/internal/metrics"
	"github.com/nsxzhou1114/blog-article-api/internal/model"
	"github.com/nsxzhou1114/blog-article-api/internal/repository"
	"github.com/nsxzhou1114/blog-article-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubStorage struct {
	err error
}

func (s stubStorage) Backend() string            { return "sqlite" }
func (s stubStorage) Ping(context.Context) error { return s.err }

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

type articleJSON struct {
	ID                   string `json:"id"`
	Title                string `json:"title"`
	Body                 string `json:"body"`
	Author               string `json:"author"`
	Published            bool   `json:"published"`
	Category             string `json:"category"`
	ViewCount            int    `json:"viewCount"`
	Summary              string `json:"summary"`
	EstimatedReadMinutes int    `json:"estimatedReadMinutes"`
}

func setupRouter(t *testing.T, storage stubStorage) *gin.Engine {
	t.Helper()
	dsn := fmt.Sprintf("file:router-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	log := zap.NewNop()
	m := metrics.New()
	svc := service.NewArticleService(repository.NewGormArticleRepository(db), log.Sugar(), service.WithMetrics(m))
	return New(Deps{
		Version:        "1.0.0",
		RequestTimeout: 5 * time.Second,
		Logger:         log,
		Metrics:        m,
		Storage:        storage,
		ArticleService: svc,
	})
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func decodeArticle(t *testing.T, env envelope) articleJSON {
	t.Helper()
	var a articleJSON
	require.NoError(t, json.Unmarshal(env.Data, &a))
	return a
}

func createArticle(t *testing.T, r *gin.Engine, title string) articleJSON {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/api/articles", gin.H{
		"title":    title,
		"body":     "This is a sufficiently long body.",
		"author":   "Ada",
		"category": "Technology",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeArticle(t, env)
}

func TestHome(t *testing.T) {
	r := setupRouter(t, stubStorage{})
	w, _ := do(t, r, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Welcome to the Blog API","version":"1.0.0","status":"running","endpoints":{"articles":"/api/articles"}}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestHealth(t *testing.T) {
	w, _ := do(t, setupRouter(t, stubStorage{}), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","storage":"up","backend":"sqlite"}`, w.Body.String())

	w, _ = do(t, setupRouter(t, stubStorage{err: errors.New("dial tcp: refused")}), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"storage":"down"`)
}

func TestCreateArticle(t *testing.T) {
	r := setupRouter(t, stubStorage{})

	w, env := do(t, r, http.MethodPost, "/api/articles", gin.H{
		"title":    "Hello World",
		"body":     "This is a sufficiently long body.",
		"author":   "Ada",
		"category": "Technology",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Article created successfully", env.Message)

	a := decodeArticle(t, env)
	assert.Len(t, a.ID, 24)
	assert.False(t, a.Published)
	assert.Equal(t, 0, a.ViewCount)
	assert.Equal(t, "Technology", a.Category)
	assert.Equal(t, "This is a sufficiently long body.", a.Summary)
	assert.Equal(t, 1, a.EstimatedReadMinutes)
}

func TestCreateArticle_ContentAlias(t *testing.T) {
	r := setupRouter(t, stubStorage{})
	w, env := do(t, r, http.MethodPost, "/api/articles", gin.H{
		"title":   "Aliased body",
		"content": "Body sent through the content field.",
		"author":  "Ada",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	a := decodeArticle(t, env)
	assert.Equal(t, "Body sent through the content field.", a.Body)
	assert.Equal(t, "Other", a.Category)
}

func TestCreateArticle_Validation(t *testing.T) {
	r := setupRouter(t, stubStorage{})

	w, env := do(t, r, http.MethodPost, "/api/articles", gin.H{
		"title":  "Hi",
		"body":   "short body",
		"author": "Ada",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Validation failed", env.Message)
	assert.Equal(t, []string{"title must be at least 3 characters"}, env.Errors)

	w, env = do(t, r, http.MethodPost, "/api/articles", gin.H{"category": "Gardening"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, env.Errors, 4)

	w, env = do(t, r, http.MethodPost, "/api/articles", `{"title":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", env.Message)

	w, env = do(t, r, http.MethodGet, "/api/articles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, *env.Count)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestGetArticle_CountsViews(t *testing.T) {
	r := setupRouter(t, stubStorage{})
	created := createArticle(t, r, "Viewed article")

	for i := 1; i <= 3; i++ {
		w, env := do(t, r, http.MethodGet, "/api/articles/"+created.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, i, decodeArticle(t, env).ViewCount)
	}

	w, env := do(t, r, http.MethodGet, "/api/articles/"+model.NewID(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Article not found", env.Message)

	w, env = do(t, r, http.MethodGet, "/api/articles/123", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid article ID", env.Message)
}

func TestPublishedRoute(t *testing.T) {
	r := setupRouter(t, stubStorage{})
	first := createArticle(t, r, "First article")
	createArticle(t, r, "Second article")

	w, env := do(t, r, http.MethodGet, "/api/articles/published", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, *env.Count)

	w, env = do(t, r, http.MethodPatch, "/api/articles/"+first.ID+"/publish", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeArticle(t, env).Published)

	w, _ = do(t, r, http.MethodPatch, "/api/articles/"+first.ID+"/publish", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/articles/published", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, *env.Count)
	var published []articleJSON
	require.NoError(t, json.Unmarshal(env.Data, &published))
	assert.Equal(t, first.ID, published[0].ID)

	w, env = do(t, r, http.MethodGet, "/api/articles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, *env.Count)

	w, env = do(t, r, http.MethodGet, "/api/articles/category/technology", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *env.Count)

	w, _ = do(t, r, http.MethodGet, "/api/articles/category/gardening", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, http.MethodPatch, "/api/articles/"+first.ID+"/unpublish", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decodeArticle(t, env).Published)
}

func TestUpdateArticle(t *testing.T) {
	r := setupRouter(t, stubStorage{})
	created := createArticle(t, r, "Original title")

	w, env := do(t, r, http.MethodPut, "/api/articles/"+created.ID, gin.H{"title": "New title", "viewCount": 5})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeArticle(t, env)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, created.Body, updated.Body)
	assert.Equal(t, 5, updated.ViewCount)

	w, env = do(t, r, http.MethodPut, "/api/articles/"+created.ID, gin.H{"viewCount": -1})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"viewCount cannot be negative"}, env.Errors)

	w, env = do(t, r, http.MethodPut, "/api/articles/not-an-id", gin.H{"title": "New title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid article ID", env.Message)

	w, _ = do(t, r, http.MethodPut, "/api/articles/"+model.NewID(), gin.H{"title": "New title"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteArticle(t *testing.T) {
	r := setupRouter(t, stubStorage{})
	created := createArticle(t, r, "Doomed article")

	w, env := do(t, r, http.MethodDelete, "/api/articles/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decodeArticle(t, env).ID)

	w, _ = do(t, r, http.MethodGet, "/api/articles/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodDelete, "/api/articles/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r := setupRouter(t, stubStorage{})
	createArticle(t, r, "Counted article")

	w, _ := do(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `blog_article_operations_total{operation="create",result="success"} 1`)
	assert.Contains(t, w.Body.String(), `blog_http_requests_total{method="POST",path="/api/articles",status="201"} 1`)
}
