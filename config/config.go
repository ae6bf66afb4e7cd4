// Package config holds the tool configuration: where the model comes
// from, how fetches are bounded, and how the server behaves. Sources
// cascade system file < user file < project file < environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/patrickkwang/bmt-lite/errors"
)

// Config is the root configuration.
type Config struct {
	Model  ModelConfig  `mapstructure:"model"`
	Fetch  FetchConfig  `mapstructure:"fetch"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

// ModelConfig selects the schema document to load.
type ModelConfig struct {
	Path     string `mapstructure:"path"`      // local schema file, wins over url and release
	URL      string `mapstructure:"url"`       // explicit fetch URL
	CacheDir string `mapstructure:"cache_dir"` // where fetched releases land
	Release  string `mapstructure:"release"`   // manifest selector: version, constraint, or "latest"
}

// FetchConfig bounds remote model downloads.
type FetchConfig struct {
	TimeoutSeconds    int `mapstructure:"timeout_seconds"`
	MaxSizeMB         int `mapstructure:"max_size_mb"`
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

// ServerConfig configures the query server.
type ServerConfig struct {
	Port           *int     `mapstructure:"port"` // nil = default; 0 is invalid (omit for default)
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Watch          bool     `mapstructure:"watch"` // rebuild when the model file changes
}

// LogConfig configures logging output.
type LogConfig struct {
	JSON bool `mapstructure:"json"`
}

// DefaultServerPort is used when server.port is not configured.
const DefaultServerPort = 8144

// File system constants
const (
	DefaultDirPermissions  = 0o755
	DefaultFilePermissions = 0o644
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port != nil && *c.Server.Port == 0 {
		return errors.Newf("server.port cannot be 0 (omit for default port %d)", DefaultServerPort)
	}
	if c.Server.Port != nil && *c.Server.Port < 0 {
		return errors.Newf("server.port must be positive, got %d", *c.Server.Port)
	}
	if c.Fetch.TimeoutSeconds < 0 {
		return errors.Newf("fetch.timeout_seconds must be >= 0, got %d", c.Fetch.TimeoutSeconds)
	}
	if c.Fetch.MaxSizeMB < 0 {
		return errors.Newf("fetch.max_size_mb must be >= 0, got %d", c.Fetch.MaxSizeMB)
	}
	if c.Fetch.RequestsPerMinute < 0 {
		return errors.Newf("fetch.requests_per_minute must be >= 0, got %d", c.Fetch.RequestsPerMinute)
	}
	if c.Model.Path != "" && c.Model.URL != "" {
		return errors.New("model.path and model.url are mutually exclusive")
	}
	return nil
}

// GetServerPort returns the configured port, or the default when unset.
func (c *Config) GetServerPort() int {
	if c.Server.Port == nil || *c.Server.Port == 0 {
		return DefaultServerPort
	}
	return *c.Server.Port
}

// GetAllowedOrigins returns the allowed CORS/WebSocket origins.
func (c *Config) GetAllowedOrigins() []string {
	if len(c.Server.AllowedOrigins) == 0 {
		return defaultAllowedOrigins()
	}
	return c.Server.AllowedOrigins
}

// GetCacheDir returns the model cache directory with tildes expanded.
func (c *Config) GetCacheDir() string {
	dir := c.Model.CacheDir
	if dir == "" {
		dir = defaultCacheDir()
	}
	return expandHome(dir)
}

// GetModelPath returns the configured local model path with tildes
// expanded, or "" when none is set.
func (c *Config) GetModelPath() string {
	if c.Model.Path == "" {
		return ""
	}
	return expandHome(c.Model.Path)
}

func expandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func defaultCacheDir() string {
	return "~/.bmt/models"
}
