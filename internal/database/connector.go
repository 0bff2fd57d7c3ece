package database

import (
	"context"
	"fmt"

	"github.com/nsxzhou1114/blog-article-api/internal/config"
	"go.uber.org/zap"
)

// Connector 存储连接，负责连接生命周期
type Connector interface {
	// Backend 存储驱动名称
	Backend() string
	// Ping 检查连接是否可用
	Ping(ctx context.Context) error
	// Close 释放连接，重复调用无副作用
	Close(ctx context.Context) error
}

// EventType 连接生命周期事件类型
type EventType string

const (
	EventDisconnected EventType = "disconnected"
	EventError        EventType = "error"
	EventReconnected  EventType = "reconnected"
)

// Event 连接生命周期事件
type Event struct {
	Type    EventType
	Backend string
	Address string
	Err     error
}

// EventHandler 处理连接事件，只记录不重试
type EventHandler func(Event)

// LogEvents 返回记录连接事件的处理函数
func LogEvents(log *zap.Logger) EventHandler {
	return func(e Event) {
		fields := []zap.Field{
			zap.String("backend", e.Backend),
			zap.String("event", string(e.Type)),
		}
		if e.Address != "" {
			fields = append(fields, zap.String("address", e.Address))
		}
		switch e.Type {
		case EventDisconnected:
			log.Warn("数据库连接已断开", fields...)
		case EventError:
			log.Error("数据库运行时错误", append(fields, zap.Error(e.Err))...)
		case EventReconnected:
			log.Info("数据库连接已恢复", fields...)
		}
	}
}

// ConnectionError 建立连接失败
type ConnectionError struct {
	Backend string
	Err     error
}

// Error 实现 error 接口
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("连接%s失败: %v", e.Backend, e.Err)
}

// Unwrap 返回底层错误
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Connect 根据配置建立存储连接，连接不可用时返回 ConnectionError
func Connect(ctx context.Context, cfg *config.StorageConfig, onEvent EventHandler) (Connector, error) {
	if onEvent == nil {
		onEvent = func(Event) {}
	}
	switch cfg.Driver {
	case config.DriverMongo:
		m, err := ConnectMongo(ctx, cfg, onEvent)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.DriverMySQL, config.DriverPostgres, config.DriverSQLite:
		g, err := ConnectGorm(ctx, cfg, onEvent)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, &ConnectionError{Backend: cfg.Driver, Err: fmt.Errorf("不支持的存储驱动: %s", cfg.Driver)}
	}
}
