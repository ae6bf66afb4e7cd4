package config

import (
	"time"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Model defaults
	v.SetDefault("model.cache_dir", defaultCacheDir())
	v.SetDefault("model.release", "latest")

	// Fetch defaults
	v.SetDefault("fetch.timeout_seconds", 30)
	v.SetDefault("fetch.max_size_mb", 32)
	v.SetDefault("fetch.requests_per_minute", 30)

	// Server defaults
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.allowed_origins", defaultAllowedOrigins())
	v.SetDefault("server.watch", false)

	// Logging defaults
	v.SetDefault("log.json", false)
}

func defaultAllowedOrigins() []string {
	return []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"https://127.0.0.1",
	}
}

// GetFetchTimeout returns the fetch timeout, defaulting when unset.
func (c *Config) GetFetchTimeout() time.Duration {
	if c.Fetch.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// GetMaxFetchBytes returns the fetch size cap in bytes.
func (c *Config) GetMaxFetchBytes() int64 {
	if c.Fetch.MaxSizeMB <= 0 {
		return 32 << 20
	}
	return int64(c.Fetch.MaxSizeMB) << 20
}

// GetRequestsPerMinute returns the fetch rate limit.
func (c *Config) GetRequestsPerMinute() int {
	if c.Fetch.RequestsPerMinute <= 0 {
		return 30
	}
	return c.Fetch.RequestsPerMinute
}
