package config

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saravanapriyaa21/take-it-right/internal/catalog"
	"github.com/saravanapriyaa21/take-it-right/internal/domain"
	"github.com/saravanapriyaa21/take-it-right/internal/reference"
)

func validConfig() *domain.Config {
	return &domain.Config{
		Server:    domain.ServerConfig{Port: 8080},
		Logging:   domain.LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
		Reference: domain.ReferenceConfig{Source: domain.ReferenceSourceEmbedded},
		Cache:     domain.CacheConfig{Enabled: true, MaxItems: 10},
		RateLimit: domain.RateLimitConfig{Enabled: true, RequestsPerSecond: 1},
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNewManager_Defaults(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv(DataDirEnv, dataDir)
	t.Chdir(t.TempDir())

	manager, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, manager.Validate())

	config := manager.GetConfig()
	assert.Equal(t, 8080, manager.GetServerConfig().Port)
	assert.Equal(t, 10*time.Second, config.Server.RequestTimeout)
	assert.Equal(t, int64(64*1024), config.Server.MaxBodyBytes)
	assert.Equal(t, domain.ReferenceSourceEmbedded, config.Reference.Source)
	assert.Equal(t, filepath.Join(dataDir, "catalog.db"), config.Catalog.SQLitePath)
	assert.Equal(t, time.Hour, config.Cache.TTL)
	assert.Equal(t, "/metrics", config.Metrics.Path)
	assert.Equal(t, "take-it-right", config.MCP.ServerName)
	assert.True(t, manager.IsDevelopment())
	assert.False(t, manager.IsProduction())
}

func TestNewManager_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TAKE_IT_RIGHT_ENVIRONMENT", "production")
	t.Setenv("TAKE_IT_RIGHT_SERVER_PORT", "9090")
	t.Setenv("TAKE_IT_RIGHT_CACHE_TTL", "5m")
	t.Setenv("TAKE_IT_RIGHT_DATABASE_PASSWORD", "secret")

	manager, err := NewManager()
	require.NoError(t, err)

	assert.Equal(t, 9090, manager.GetServerConfig().Port)
	assert.Equal(t, 5*time.Minute, manager.GetConfig().Cache.TTL)
	assert.Equal(t, "secret", manager.GetDatabaseConfig().Password)
	assert.True(t, manager.IsProduction())
	assert.Contains(t, manager.GetDatabaseConnectionString(), "password=secret")
}

func TestNewManagerWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7070
logging:
  level: debug
  format: text
reference:
  source: file
  path: /srv/reference.yaml
rate_limit:
  requests_per_second: 2.5
`), 0o600))

	manager, err := NewManagerWithFile(path)
	require.NoError(t, err)
	require.NoError(t, manager.Validate())

	config := manager.GetConfig()
	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "text", config.Logging.Format)
	assert.Equal(t, "/srv/reference.yaml", config.Reference.Path)
	assert.Equal(t, 2.5, config.RateLimit.RequestsPerSecond)
	assert.Equal(t, 20, config.RateLimit.Burst)

	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 6060\n"), 0o600))
	require.NoError(t, manager.Reload())
	assert.Equal(t, 6060, manager.GetServerConfig().Port)
}

func TestNewManagerWithFile_Missing(t *testing.T) {
	_, err := NewManagerWithFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Config)
		errMsg string
	}{
		{"valid", func(*domain.Config) {}, ""},
		{"port zero", func(c *domain.Config) { c.Server.Port = 0 }, "invalid server port"},
		{"port too high", func(c *domain.Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"log level", func(c *domain.Config) { c.Logging.Level = "loud" }, "invalid log level"},
		{"log format", func(c *domain.Config) { c.Logging.Format = "xml" }, "invalid log format"},
		{"log output", func(c *domain.Config) { c.Logging.Output = "syslog" }, "invalid log output"},
		{"unknown source", func(c *domain.Config) { c.Reference.Source = "s3" }, "invalid reference source"},
		{"file without path", func(c *domain.Config) { c.Reference.Source = domain.ReferenceSourceFile }, "reference path is required"},
		{"sqlite without path", func(c *domain.Config) { c.Reference.Source = domain.ReferenceSourceSQLite }, "reference path is required"},
		{"sqlite catalog path", func(c *domain.Config) {
			c.Reference.Source = domain.ReferenceSourceSQLite
			c.Catalog.SQLitePath = "/tmp/catalog.db"
		}, ""},
		{"postgres without host", func(c *domain.Config) { c.Reference.Source = domain.ReferenceSourcePostgres }, "database host is required"},
		{"cache without size", func(c *domain.Config) { c.Cache.MaxItems = 0 }, "cache max_items"},
		{"cache disabled", func(c *domain.Config) {
			c.Cache.Enabled = false
			c.Cache.MaxItems = 0
		}, ""},
		{"zero rate", func(c *domain.Config) { c.RateLimit.RequestsPerSecond = 0 }, "rate limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(config)
			err := Validate(config)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(domain.LoggingConfig{Level: "debug", Format: "text", Output: "stderr"})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
	assert.Equal(t, os.Stderr, logger.Out)

	logger, err = NewLogger(domain.LoggingConfig{Level: "nonsense"})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	_, err = NewLogger(domain.LoggingConfig{Format: "xml"})
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TAKE_IT_RIGHT_DOTENV_PROBE=loaded\n"), 0o600))
	t.Setenv("TAKE_IT_RIGHT_DOTENV_PROBE", "")
	require.NoError(t, os.Unsetenv("TAKE_IT_RIGHT_DOTENV_PROBE"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "loaded", os.Getenv("TAKE_IT_RIGHT_DOTENV_PROBE"))
}

func TestPaths(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	t.Setenv(DataDirEnv, dir)

	assert.Equal(t, dir, DefaultDataDir())
	assert.Equal(t, filepath.Join(dir, "catalog.db"), DefaultCatalogPath())

	require.NoError(t, EnsureDataDir())
	info, err := os.Stat(DefaultExportDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoadReference_Embedded(t *testing.T) {
	tables, err := LoadReference(context.Background(), validConfig(), quietLogger())
	require.NoError(t, err)
	assert.Contains(t, tables.Ingredients(), "paracetamol")
}

func TestLoadReference_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid"), 0o600))

	config := validConfig()
	config.Reference = domain.ReferenceConfig{Source: domain.ReferenceSourceFile, Path: path}
	_, err := LoadReference(context.Background(), config, quietLogger())
	assert.ErrorIs(t, err, reference.ErrInvalidTables)
}

func TestLoadReference_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	config := validConfig()
	config.Reference.Source = domain.ReferenceSourceSQLite
	config.Catalog.SQLitePath = path

	_, err := LoadReference(context.Background(), config, quietLogger())
	assert.ErrorIs(t, err, catalog.ErrEmptyCatalog)

	doc, err := reference.DefaultDocument()
	require.NoError(t, err)
	store, err := catalog.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveDocument(context.Background(), doc))
	require.NoError(t, store.Close())

	tables, err := LoadReference(context.Background(), config, quietLogger())
	require.NoError(t, err)

	embedded, err := reference.Default()
	require.NoError(t, err)
	assert.Equal(t, embedded.Fingerprint(), tables.Fingerprint())
}
