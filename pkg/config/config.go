package config

import "time"

// Config is the root configuration structure for Callisto.
// It contains all configuration sections for the HTTP server, grammar
// registry, audit trail, and telemetry settings.
type Config struct {
	// Server contains HTTP server configuration including listen address
	// and timeouts.
	Server ServerConfig `yaml:"server"`

	// Grammars contains configuration for the grammar registry including
	// the grammar directory and hot-reload settings.
	Grammars GrammarsConfig `yaml:"grammars"`

	// Audit contains configuration for the audit trail including storage
	// backend, async recording, and retention settings.
	Audit AuditConfig `yaml:"audit"`

	// Telemetry contains configuration for observability including logging
	// and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8931", "0.0.0.0:8931").
	// Default: "127.0.0.1:8931"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. A zero value means no timeout.
	// Default: 10s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. A zero value means no timeout.
	// Default: 10s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled. If IdleTimeout is zero, ReadTimeout is used.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// If requests are still in-flight after this timeout, the server will
	// force shutdown.
	// Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxRequestBytes limits the size of request bodies accepted by the
	// parse endpoint.
	// Default: 65536 (64KB)
	MaxRequestBytes int64 `yaml:"max_request_bytes"`
}

// GrammarsConfig contains configuration for the grammar registry.
type GrammarsConfig struct {
	// Dir is the directory containing grammar files. All files with a
	// recognized extension are loaded at startup.
	// Default: "./grammars"
	Dir string `yaml:"dir"`

	// Watch controls whether the grammar directory is watched for changes.
	// When enabled, edits to grammar files trigger a registry reload.
	// Default: false
	Watch bool `yaml:"watch"`

	// MatchTimeout bounds the time a single regular expression match may
	// take. Matches exceeding the timeout are treated as non-matches.
	// Default: 250ms
	MatchTimeout time.Duration `yaml:"match_timeout"`
}

// AuditConfig contains configuration for the audit trail.
type AuditConfig struct {
	// Enabled controls whether parse operations are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// SQLite contains configuration for the SQLite storage backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Recorder contains configuration for asynchronous record writing.
	Recorder RecorderConfig `yaml:"recorder"`

	// Retention contains configuration for record retention and pruning.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig contains configuration for SQLite audit storage.
type SQLiteConfig struct {
	// Path is the filesystem path to the SQLite database file. Parent
	// directories are created if they do not exist.
	// Default: "data/audit.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long SQLite waits for a lock before failing.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RecorderConfig contains configuration for asynchronous audit recording.
type RecorderConfig struct {
	// AsyncBuffer is the size of the in-memory record queue. When the
	// queue is full, new records are dropped rather than blocking the
	// request path.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout bounds each storage write.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RetentionConfig contains configuration for audit record retention.
type RetentionConfig struct {
	// Days is how long records are kept. Zero disables time-based pruning.
	// Default: 30
	Days int `yaml:"days"`

	// MaxRecords caps the total number of stored records; the oldest are
	// deleted first. Zero disables count-based pruning.
	// Default: 0 (disabled)
	MaxRecords int64 `yaml:"max_records"`

	// Schedule is a cron expression for scheduled pruning. Empty disables
	// the scheduler.
	// Default: "0 3 * * *" (daily at 3 AM)
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level. One of: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format. One of: "json", "text".
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path where metrics are exposed.
	// Default: "/metrics"
	Path string `yaml:"path"`
}
