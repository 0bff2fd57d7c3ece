package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/blog-article-api/internal/config"
	"github.com/nsxzhou1114/blog-article-api/internal/database"
	"github.com/nsxzhou1114/blog-article-api/internal/logger"
	"github.com/nsxzhou1114/blog-article-api/internal/metrics"
	"github.com/nsxzhou1114/blog-article-api/internal/repository"
	"github.com/nsxzhou1114/blog-article-api/internal/router"
	"github.com/nsxzhou1114/blog-article-api/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var configPath string

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "blog-api",
	Short: "博客文章API服务",
	Long:  `博客文章API服务，提供文章的增删改查、发布与浏览统计`,
}

// serveCmd 启动服务命令
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动HTTP服务",
	Long:  `启动博客文章API的HTTP服务器`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startServer(cmd.Context())
	},
}

func init() {
	// 添加全局标志
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./config", "配置文件路径")

	// 添加子命令
	rootCmd.AddCommand(serveCmd)
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// system 启动后的系统组件
type system struct {
	cfg     *config.Config
	log     *zap.Logger
	conn    database.Connector
	repo    repository.ArticleRepository
	metrics *metrics.Metrics
}

// close 释放存储连接并刷新日志
func (s *system) close() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.App.ShutdownTimeout)
	defer cancel()
	if err := s.conn.Close(ctx); err != nil {
		s.log.Error("关闭存储连接失败", zap.Error(err))
	}
	_ = logger.Sync()
}

// initializeSystem 初始化配置、日志与存储连接
func initializeSystem(ctx context.Context) (*system, error) {
	// 初始化配置
	if err := config.Init(configPath); err != nil {
		return nil, fmt.Errorf("配置初始化失败: %w", err)
	}
	cfg := config.GetConfig()

	// 初始化日志
	if err := logger.Init(&cfg.Log); err != nil {
		return nil, fmt.Errorf("日志初始化失败: %w", err)
	}
	log := logger.GetLogger()

	m := metrics.New()
	onEvent := database.LogEvents(log)
	handler := func(e database.Event) {
		onEvent(e)
		switch e.Type {
		case database.EventDisconnected:
			m.SetStorageConnected(false)
		case database.EventReconnected:
			m.SetStorageConnected(true)
		}
	}

	// 初始化存储连接
	conn, err := database.Connect(ctx, &cfg.Storage, handler)
	if err != nil {
		return nil, err
	}
	m.SetStorageConnected(true)
	log.Info("存储连接成功", zap.String("backend", conn.Backend()))

	repo, err := repository.NewArticleRepository(ctx, conn)
	if err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("初始化文章仓储失败: %w", err)
	}

	return &system{cfg: cfg, log: log, conn: conn, repo: repo, metrics: m}, nil
}

// mustInitialize 初始化失败时退出进程
func mustInitialize(ctx context.Context) *system {
	sys, err := initializeSystem(ctx)
	if err != nil {
		var connErr *database.ConnectionError
		if errors.As(err, &connErr) {
			logger.GetLogger().Error("存储连接失败", zap.String("backend", connErr.Backend), zap.Error(connErr.Err))
		}
		fmt.Printf("系统初始化失败: %v\n", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	return sys
}

// startServer 启动HTTP服务，收到中断信号后优雅关闭
func startServer(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sys := mustInitialize(ctx)
	defer sys.close()

	// 设置Gin模式
	gin.SetMode(sys.cfg.App.Mode)

	articleService := service.NewArticleService(sys.repo, logger.GetSugaredLogger(), service.WithMetrics(sys.metrics))
	r := router.New(router.Deps{
		Version:        sys.cfg.App.Version,
		RequestTimeout: sys.cfg.App.RequestTimeout,
		Logger:         sys.log,
		Metrics:        sys.metrics,
		Storage:        sys.conn,
		ArticleService: articleService,
	})

	srv := &http.Server{
		Addr:    sys.cfg.App.Addr(),
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sys.log.Info("服务已启动", zap.String("addr", srv.Addr), zap.String("backend", sys.conn.Backend()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP服务启动失败: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sys.log.Info("关闭服务...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), sys.cfg.App.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("服务关闭异常: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		sys.log.Error("服务异常退出", zap.Error(err))
		return err
	}
	sys.log.Info("服务已关闭")
	return nil
}
