package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/blog-article-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestArticleApi_FailLogLevel(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantLevel zapcore.Level
	}{
		{"client canceled", fmt.Errorf("get article: %w", context.Canceled), StatusClientClosedRequest, zapcore.InfoLevel},
		{"storage failure", errors.New("connection reset"), http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			api := &ArticleApi{logger: zap.New(core).Sugar()}

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/articles/x", nil)

			api.fail(c, "Failed to fetch article", tt.err)
			assert.Equal(t, tt.wantCode, w.Code)
			require.Equal(t, 1, logs.Len())
			assert.Equal(t, tt.wantLevel, logs.All()[0].Level)
		})
	}
}

func TestArticleApi_FailClientErrorNotLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	api := &ArticleApi{logger: zap.New(core).Sugar()}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/articles/x", nil)

	api.fail(c, "Failed to fetch article", model.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, logs.Len())
}
