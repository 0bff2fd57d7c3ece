package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	return dir
}

func TestLoad_FromFile(t *testing.T) {
	dir := writeConfig(t, `
app:
  port: 8080
  request_timeout: 5s
storage:
  driver: sqlite
  uri: "file::memory:"
log:
  level: debug
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 5*time.Second, cfg.App.RequestTimeout)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "file::memory:", cfg.Storage.URI)
	assert.Equal(t, "debug", cfg.Log.Level)
	// 未配置的项使用默认值
	assert.Equal(t, "blog-api", cfg.App.Name)
	assert.Equal(t, 10*time.Second, cfg.App.ShutdownTimeout)
	assert.Equal(t, ":8080", cfg.App.Addr())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := writeConfig(t, `
app:
  port: 8080
storage:
  uri: mongodb://file-host:27017
`)
	t.Setenv("MONGODB_URI", "mongodb://env-host:27017")
	t.Setenv("PORT", "4000")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "mongodb://env-host:27017", cfg.Storage.URI)
	assert.Equal(t, 4000, cfg.App.Port)
	assert.Equal(t, DriverMongo, cfg.Storage.Driver)
	assert.True(t, cfg.Storage.IsDocumentStore())
}

func TestLoad_WithoutConfigFile(t *testing.T) {
	t.Setenv("STORAGE_URI", "mongodb://localhost:27017")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.App.Port)
	assert.Equal(t, "blog", cfg.Storage.Database)
}

func TestLoad_MissingURI(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			App:     AppConfig{Port: 3000},
			Storage: StorageConfig{Driver: DriverMongo, URI: "mongodb://localhost", Database: "blog"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.App.Port = 0 }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "oracle" }, wantErr: true},
		{name: "blank uri", mutate: func(c *Config) { c.Storage.URI = "  " }, wantErr: true},
		{name: "mongo without database", mutate: func(c *Config) { c.Storage.Database = "" }, wantErr: true},
		{name: "sql without database name", mutate: func(c *Config) {
			c.Storage.Driver = DriverPostgres
			c.Storage.Database = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
