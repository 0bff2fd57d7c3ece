package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Version         string        `mapstructure:"version"`
	Mode            string        `mapstructure:"mode"`
	Port            int           `mapstructure:"port"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig 存储配置
type StorageConfig struct {
	Driver         string        `mapstructure:"driver"` // mongo mysql postgres sqlite
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	HealthInterval time.Duration `mapstructure:"health_interval"`
	MaxIdleConns   int           `mapstructure:"max_idle_conns"`
	MaxOpenConns   int           `mapstructure:"max_open_conns"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
	Stdout     bool   `mapstructure:"stdout"`
}

// 支持的存储驱动
const (
	DriverMongo    = "mongo"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Addr 获取HTTP监听地址
func (c *AppConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// IsDocumentStore 是否使用文档数据库
func (c *StorageConfig) IsDocumentStore() bool {
	return c.Driver == DriverMongo
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("无效的端口: %d", c.App.Port)
	}
	switch c.Storage.Driver {
	case DriverMongo, DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("不支持的存储驱动: %q", c.Storage.Driver)
	}
	if strings.TrimSpace(c.Storage.URI) == "" {
		return errors.New("存储连接字符串不能为空")
	}
	if c.Storage.IsDocumentStore() && c.Storage.Database == "" {
		return errors.New("文档数据库名称不能为空")
	}
	return nil
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig *Config
)

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "blog-api")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.mode", "release")
	v.SetDefault("app.port", 3000)
	v.SetDefault("app.request_timeout", 10*time.Second)
	v.SetDefault("app.shutdown_timeout", 10*time.Second)

	v.SetDefault("storage.driver", DriverMongo)
	v.SetDefault("storage.uri", "")
	v.SetDefault("storage.database", "blog")
	v.SetDefault("storage.connect_timeout", 10*time.Second)
	v.SetDefault("storage.health_interval", 30*time.Second)
	v.SetDefault("storage.max_idle_conns", 10)
	v.SetDefault("storage.max_open_conns", 50)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.stdout", true)
}

// Load 从配置目录和环境变量加载配置，配置文件可选
func Load(configPath string) (*Config, error) {
	// .env 文件不存在时忽略
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(configPath)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 兼容常用的环境变量名
	_ = v.BindEnv("storage.uri", "STORAGE_URI", "MONGODB_URI")
	_ = v.BindEnv("app.port", "APP_PORT", "PORT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init 初始化全局配置
func Init(configPath string) error {
	cfg, err := Load(configPath)
	if err != nil {
		return err
	}
	GlobalConfig = cfg
	return nil
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	return GlobalConfig
}
