package database

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nsxzhou1114/blog-article-api/internal/config"
	"github.com/robfig/cron/v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// GormConnector 关系型数据库连接。
// 连接池没有生命周期回调，由定时探活产生连接事件。
type GormConnector struct {
	db        *gorm.DB
	backend   string
	ping      func(ctx context.Context) error
	closeDB   func() error
	timeout   time.Duration
	onEvent   EventHandler
	cron      *cron.Cron
	failing   atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// dialector 根据驱动选择 gorm 方言
func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case config.DriverMySQL:
		return mysql.Open(dsn), nil
	case config.DriverPostgres:
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("不支持的存储驱动: %s", driver)
	}
}

// OpenGorm 打开 gorm 连接并配置连接池
func OpenGorm(cfg *config.StorageConfig) (*gorm.DB, error) {
	d, err := dialector(cfg.Driver, cfg.URI)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true, // 使用单数表名
		},
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取数据库连接池失败: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	// 默认连接最大生命周期为一小时
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// ConnectGorm 连接关系型数据库，测试连通后启动探活任务
func ConnectGorm(ctx context.Context, cfg *config.StorageConfig, onEvent EventHandler) (*GormConnector, error) {
	db, err := OpenGorm(cfg)
	if err != nil {
		return nil, &ConnectionError{Backend: cfg.Driver, Err: err}
	}

	g, err := NewGormConnector(db, cfg.Driver, cfg.ConnectTimeout, onEvent)
	if err != nil {
		return nil, &ConnectionError{Backend: cfg.Driver, Err: err}
	}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := g.Ping(pingCtx); err != nil {
		_ = g.closeDB()
		return nil, &ConnectionError{Backend: cfg.Driver, Err: err}
	}

	if err := g.StartHealthCheck(cfg.HealthInterval); err != nil {
		_ = g.closeDB()
		return nil, &ConnectionError{Backend: cfg.Driver, Err: err}
	}
	return g, nil
}

// NewGormConnector 包装已打开的 gorm 连接
func NewGormConnector(db *gorm.DB, backend string, timeout time.Duration, onEvent EventHandler) (*GormConnector, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取数据库连接池失败: %w", err)
	}
	if onEvent == nil {
		onEvent = func(Event) {}
	}
	return &GormConnector{
		db:      db,
		backend: backend,
		ping:    sqlDB.PingContext,
		closeDB: sqlDB.Close,
		timeout: timeout,
		onEvent: onEvent,
	}, nil
}

// StartHealthCheck 按间隔探活，interval 为0时不启动
func (g *GormConnector) StartHealthCheck(interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", interval), g.probe); err != nil {
		return fmt.Errorf("注册探活任务失败: %w", err)
	}
	c.Start()
	g.cron = c
	return nil
}

// probe 执行一次探活，状态变化时发出事件
func (g *GormConnector) probe() {
	ctx := context.Background()
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	if err := g.ping(ctx); err != nil {
		g.onEvent(Event{Type: EventError, Backend: g.backend, Err: err})
		if !g.failing.Swap(true) {
			g.onEvent(Event{Type: EventDisconnected, Backend: g.backend, Err: err})
		}
		return
	}
	if g.failing.Swap(false) {
		g.onEvent(Event{Type: EventReconnected, Backend: g.backend})
	}
}

// Backend 存储驱动名称
func (g *GormConnector) Backend() string {
	return g.backend
}

// DB 获取 gorm 实例
func (g *GormConnector) DB() *gorm.DB {
	return g.db
}

// Ping 检查连接是否可用
func (g *GormConnector) Ping(ctx context.Context) error {
	return g.ping(ctx)
}

// Close 停止探活并关闭连接池
func (g *GormConnector) Close(ctx context.Context) error {
	g.closeOnce.Do(func() {
		if g.cron != nil {
			stopped := g.cron.Stop()
			select {
			case <-stopped.Done():
			case <-ctx.Done():
			}
		}
		g.closeErr = g.closeDB()
	})
	return g.closeErr
}
