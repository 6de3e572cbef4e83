// Package config holds the refdata configuration. Every setting comes from
// an environment variable named by its env tag, with the default tag as
// fallback. Validate reports every problem at once.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Data     DataConfig
	Build    BuildConfig
	Server   ServerConfig
	Database DatabaseConfig
	Blob     BlobConfig
	Logging  LoggingConfig
}

// DataConfig locates the source tables.
type DataConfig struct {
	// Dir is the directory holding the CSV tables (default: data/refdata)
	Dir string `env:"REFDATA_DIR" default:"data/refdata"`

	// FactorsDir overrides the lcia_factors partition directory (default: <Dir>/lcia_factors)
	FactorsDir string `env:"LCIA_FACTORS_DIR"`
}

// BuildConfig holds library build settings.
type BuildConfig struct {
	// Dir is the output directory; libraries go to <Dir>/libraries (default: build)
	Dir string `env:"BUILD_DIR" default:"build"`

	// Version is appended to library and pack names (default: 2.0.0.alpha)
	Version string `env:"LIB_VERSION" default:"2.0.0.alpha"`

	// MatrixIndexOrder is first-seen or sorted (default: first-seen)
	MatrixIndexOrder string `env:"MATRIX_INDEX_ORDER" default:"first-seen"`

	// PlanFile is an optional YAML file replacing the default library plan
	PlanFile string `env:"BUILD_PLAN_FILE"`

	// MetricsFile receives the run metrics in Prometheus text format
	// (node_exporter textfile collector); unset disables it
	MetricsFile string `env:"BUILD_METRICS_FILE"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`

	// TrustedProxies lists proxy CIDRs whose X-Real-IP and X-Forwarded-For
	// headers are believed (default: 127.0.0.1,::1)
	TrustedProxies []string `env:"SERVER_TRUSTED_PROXIES" default:"127.0.0.1,::1"`
}

// DatabaseConfig holds database connection settings. The database is only
// used by the export-db command.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string; export-db requires it
	URL string `env:"DATABASE_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// BlobConfig selects where packaged libraries are published.
type BlobConfig struct {
	// Driver is none, fs or s3 (default: none)
	Driver string `env:"BLOB_DRIVER" default:"none"`

	// Prefix is prepended to every published key
	Prefix string `env:"BLOB_PREFIX"`

	// Overwrite replaces published archives of the same name (default: false)
	Overwrite bool `env:"BLOB_OVERWRITE" default:"false"`

	// FSRoot is the target directory of the fs driver (default: build/published)
	FSRoot string `env:"BLOB_FS_ROOT" default:"build/published"`

	S3Bucket    string `env:"BLOB_S3_BUCKET"`
	S3Region    string `env:"BLOB_S3_REGION" default:"us-east-1"`
	S3Endpoint  string `env:"BLOB_S3_ENDPOINT"`
	S3PathStyle bool   `env:"BLOB_S3_PATH_STYLE" default:"false"`

	// Static credentials; the default AWS chain is used when unset
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3SessionToken    string `env:"AWS_SESSION_TOKEN"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
