// Package config holds server configuration loaded from environment
// variables, with command-line flags layered on top by main.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Files   FilesConfig
	Perf    PerfConfig
	Logging LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// FilesConfig holds file tree and upload configuration.
type FilesConfig struct {
	RootDrive     string `envconfig:"ROOT_DRIVE" default:"."`
	WriteMode     bool   `envconfig:"WRITE_MODE" default:"false"`
	MaxUploadSize int64  `envconfig:"MAX_CONTENT_LENGTH" default:"16777216"`
	ModLogPath    string `envconfig:"MODLOG_PATH" default:"modifications.db"`
	UploadsDir    string `envconfig:"UPLOADS_DIR" default:"./uploads"`
}

// PerfConfig holds cache and size-computation tuning.
type PerfConfig struct {
	CacheTimeoutSec   int   `envconfig:"CACHE_TIMEOUT" default:"10"`
	DisableFolderSize bool  `envconfig:"DISABLE_FOLDER_SIZE" default:"false"`
	MaxPreviewBytes   int64 `envconfig:"MAX_PREVIEW_SIZE" default:"5242880"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
