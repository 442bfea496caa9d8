package model

import "time"

// ----------------------------------------------------
// ================ Config ================

// LogConfig holds configuration for the global logger
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	Format     string `envconfig:"LOG_FORMAT" default:"console"`
	Output     string `envconfig:"LOG_OUTPUT" default:"stdout"`
	FilePath   string `envconfig:"LOG_FILE_PATH" default:"logs/app.log"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"rfc3339"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Addr              string        `envconfig:"SERVER_ADDR" default:":3000"`
	ReadHeaderTimeout time.Duration `envconfig:"SERVER_READ_HEADER_TIMEOUT" default:"3s"`
	ShutdownTimeout   time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"5s"`
	UIConfigPath      string        `envconfig:"UI_CONFIG_PATH" default:"config.yaml"`
}

// BackendConfig points at the retrieval backend.
// Timeout 0 means no client-side timeout.
type BackendConfig struct {
	BaseURL string        `envconfig:"BACKEND_BASE_URL" default:"http://localhost:8000"`
	Timeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"0s"`
}

// StorageConfig selects the per-view state store. An empty RedisURL keeps
// state in process memory.
type StorageConfig struct {
	RedisURL string        `envconfig:"REDIS_URL"`
	PageTTL  time.Duration `envconfig:"PAGE_TTL" default:"40m"`
}
