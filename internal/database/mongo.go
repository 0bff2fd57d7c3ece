package database

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/nsxzhou1114/blog-article-api/internal/config"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConnector MongoDB 连接
type MongoConnector struct {
	client    *mongo.Client
	db        *mongo.Database
	onEvent   EventHandler
	failing   atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// serverMonitor 把驱动心跳转换为连接事件
func (m *MongoConnector) serverMonitor() *event.ServerMonitor {
	return &event.ServerMonitor{
		ServerHeartbeatFailed: func(e *event.ServerHeartbeatFailedEvent) {
			m.heartbeatFailed(e.ConnectionID, e.Failure)
		},
		ServerHeartbeatSucceeded: func(e *event.ServerHeartbeatSucceededEvent) {
			m.heartbeatSucceeded(e.ConnectionID)
		},
	}
}

func (m *MongoConnector) heartbeatFailed(addr string, err error) {
	m.onEvent(Event{Type: EventError, Backend: config.DriverMongo, Address: addr, Err: err})
	if !m.failing.Swap(true) {
		m.onEvent(Event{Type: EventDisconnected, Backend: config.DriverMongo, Address: addr, Err: err})
	}
}

func (m *MongoConnector) heartbeatSucceeded(addr string) {
	if m.failing.Swap(false) {
		m.onEvent(Event{Type: EventReconnected, Backend: config.DriverMongo, Address: addr})
	}
}

// ConnectMongo 连接 MongoDB 并确认主节点可用
func ConnectMongo(ctx context.Context, cfg *config.StorageConfig, onEvent EventHandler) (*MongoConnector, error) {
	if onEvent == nil {
		onEvent = func(Event) {}
	}
	m := &MongoConnector{onEvent: onEvent}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerMonitor(m.serverMonitor())
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
		opts.SetServerSelectionTimeout(cfg.ConnectTimeout)
	}
	if cfg.MaxOpenConns > 0 {
		opts.SetMaxPoolSize(uint64(cfg.MaxOpenConns))
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, &ConnectionError{Backend: config.DriverMongo, Err: err}
	}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &ConnectionError{Backend: config.DriverMongo, Err: err}
	}

	m.client = client
	m.db = client.Database(cfg.Database)
	return m, nil
}

// Backend 存储驱动名称
func (m *MongoConnector) Backend() string {
	return config.DriverMongo
}

// Database 获取数据库句柄
func (m *MongoConnector) Database() *mongo.Database {
	return m.db
}

// Ping 检查主节点是否可用
func (m *MongoConnector) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close 断开连接
func (m *MongoConnector) Close(ctx context.Context) error {
	m.closeOnce.Do(func() {
		m.closeErr = m.client.Disconnect(ctx)
	})
	return m.closeErr
}
