package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Reference   ReferenceConfig `mapstructure:"reference"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Catalog     CatalogConfig   `mapstructure:"catalog"`
	Cache       CacheConfig     `mapstructure:"cache"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Metrics     MetricsConfig   `mapstructure:"metrics"`
	MCP         MCPConfig       `mapstructure:"mcp"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json", "text"
	Output string `mapstructure:"output"` // "stdout", "stderr"
}

// Reference table sources
const (
	ReferenceSourceEmbedded = "embedded"
	ReferenceSourceFile     = "file"
	ReferenceSourceSQLite   = "sqlite"
	ReferenceSourcePostgres = "postgres"
)

// ReferenceConfig selects where the reference tables are loaded from at
// startup.
type ReferenceConfig struct {
	Source string `mapstructure:"source"`
	Path   string `mapstructure:"path"`
}

// DatabaseConfig represents PostgreSQL connection configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdle     time.Duration `mapstructure:"conn_max_idle"`
	RunMigrations   bool          `mapstructure:"migrations"`
}

// CatalogConfig represents the embedded catalog store configuration
type CatalogConfig struct {
	SQLitePath string `mapstructure:"sqlite_path"`
}

// CacheConfig represents verdict cache configuration
type CacheConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxItems     int           `mapstructure:"max_items"`
	TTL          time.Duration `mapstructure:"ttl"`
	RedisURL     string        `mapstructure:"redis_url"`
	RedisTimeout time.Duration `mapstructure:"redis_timeout"`
}

// RateLimitConfig represents per-client request limiting
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// MetricsConfig represents Prometheus exposition configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// MCPConfig represents MCP server configuration
type MCPConfig struct {
	ServerName    string `mapstructure:"server_name"`
	ServerVersion string `mapstructure:"server_version"`
}
