package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	// Isolated viper instance, no user/system config involved
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	if err != nil {
		t.Fatalf("LoadWithViper() failed: %v", err)
	}

	if cfg.Model.CacheDir != "~/.bmt/models" {
		t.Errorf("expected default cache dir '~/.bmt/models', got %q", cfg.Model.CacheDir)
	}
	if cfg.Model.Release != "latest" {
		t.Errorf("expected default release 'latest', got %q", cfg.Model.Release)
	}
	if cfg.GetServerPort() != DefaultServerPort {
		t.Errorf("expected default port %d, got %d", DefaultServerPort, cfg.GetServerPort())
	}
	if cfg.Fetch.TimeoutSeconds != 30 {
		t.Errorf("expected default fetch timeout 30, got %d", cfg.Fetch.TimeoutSeconds)
	}
	if cfg.Log.JSON {
		t.Error("expected console logging by default")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("BMT_SERVER_PORT", "9999")
	t.Setenv("BMT_MODEL_RELEASE", "4.2.1")

	// Same env wiring as initViper, on an isolated instance.
	v := viper.New()
	v.SetEnvPrefix("BMT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if got := v.GetInt("server.port"); got != 9999 {
		t.Errorf("server.port = %d, want env override 9999", got)
	}
	if got := v.GetString("model.release"); got != "4.2.1" {
		t.Errorf("model.release = %q, want env override 4.2.1", got)
	}
	// Untouched keys keep their defaults.
	if got := v.GetString("model.cache_dir"); got != "~/.bmt/models" {
		t.Errorf("model.cache_dir = %q, want default", got)
	}
}

func TestValidate(t *testing.T) {
	zero := 0
	negative := -1
	valid := 9000

	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "empty config is valid",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "explicit port is valid",
			config: Config{
				Server: ServerConfig{Port: &valid},
			},
			wantErr: false,
		},
		{
			name: "zero port is invalid",
			config: Config{
				Server: ServerConfig{Port: &zero},
			},
			wantErr: true,
		},
		{
			name: "negative port is invalid",
			config: Config{
				Server: ServerConfig{Port: &negative},
			},
			wantErr: true,
		},
		{
			name: "negative fetch timeout is invalid",
			config: Config{
				Fetch: FetchConfig{TimeoutSeconds: -1},
			},
			wantErr: true,
		},
		{
			name: "negative size cap is invalid",
			config: Config{
				Fetch: FetchConfig{MaxSizeMB: -1},
			},
			wantErr: true,
		},
		{
			name: "path and url together are invalid",
			config: Config{
				Model: ModelConfig{Path: "a.yaml", URL: "https://example.com/b.yaml"},
			},
			wantErr: true,
		},
		{
			name: "path alone is valid",
			config: Config{
				Model: ModelConfig{Path: "a.yaml"},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	tests := []struct {
		key      string
		expected interface{}
	}{
		{"model.cache_dir", "~/.bmt/models"},
		{"model.release", "latest"},
		{"fetch.timeout_seconds", 30},
		{"fetch.max_size_mb", 32},
		{"fetch.requests_per_minute", 30},
		{"server.port", DefaultServerPort},
		{"server.watch", false},
		{"log.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := v.Get(tt.key)
			if got != tt.expected {
				t.Errorf("default %s = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

func TestFindProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("found in ancestor", func(t *testing.T) {
		subDir := filepath.Join(tmpDir, "test1", "subdir")
		os.MkdirAll(subDir, DefaultDirPermissions)
		os.WriteFile(filepath.Join(tmpDir, "test1", "bmt.toml"), []byte(""), DefaultFilePermissions)

		oldWd, _ := os.Getwd()
		defer os.Chdir(oldWd)
		os.Chdir(subDir)

		result := findProjectConfig()
		if result == "" {
			t.Fatal("expected to find config file")
		}
		if filepath.Base(result) != "bmt.toml" {
			t.Errorf("expected bmt.toml, got %s", filepath.Base(result))
		}
	})

	t.Run("no config found", func(t *testing.T) {
		subDir := filepath.Join(tmpDir, "test2", "subdir")
		os.MkdirAll(subDir, DefaultDirPermissions)

		oldWd, _ := os.Getwd()
		defer os.Chdir(oldWd)
		os.Chdir(subDir)

		if result := findProjectConfig(); result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bmt.toml")
	content := `
[model]
path = "/data/biolink-model.yaml"

[server]
port = 9001
watch = true

[log]
json = true
`
	if err := os.WriteFile(path, []byte(content), DefaultFilePermissions); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() failed: %v", err)
	}

	if cfg.Model.Path != "/data/biolink-model.yaml" {
		t.Errorf("unexpected model path %q", cfg.Model.Path)
	}
	if cfg.GetServerPort() != 9001 {
		t.Errorf("expected port 9001, got %d", cfg.GetServerPort())
	}
	if !cfg.Server.Watch {
		t.Error("expected watch enabled")
	}
	if !cfg.Log.JSON {
		t.Error("expected JSON logging")
	}
	// Defaults still apply underneath the file.
	if cfg.Model.Release != "latest" {
		t.Errorf("expected default release, got %q", cfg.Model.Release)
	}
}

func TestFetchGetters(t *testing.T) {
	var cfg Config
	if cfg.GetFetchTimeout() != 30*time.Second {
		t.Errorf("expected 30s fallback, got %v", cfg.GetFetchTimeout())
	}
	if cfg.GetMaxFetchBytes() != 32<<20 {
		t.Errorf("expected 32MiB fallback, got %d", cfg.GetMaxFetchBytes())
	}
	if cfg.GetRequestsPerMinute() != 30 {
		t.Errorf("expected 30rpm fallback, got %d", cfg.GetRequestsPerMinute())
	}

	cfg.Fetch = FetchConfig{TimeoutSeconds: 5, MaxSizeMB: 1, RequestsPerMinute: 60}
	if cfg.GetFetchTimeout() != 5*time.Second {
		t.Errorf("expected 5s, got %v", cfg.GetFetchTimeout())
	}
	if cfg.GetMaxFetchBytes() != 1<<20 {
		t.Errorf("expected 1MiB, got %d", cfg.GetMaxFetchBytes())
	}
	if cfg.GetRequestsPerMinute() != 60 {
		t.Errorf("expected 60rpm, got %d", cfg.GetRequestsPerMinute())
	}
}

func TestGetCacheDirExpandsHome(t *testing.T) {
	cfg := Config{Model: ModelConfig{CacheDir: "~/.bmt/models"}}
	dir := cfg.GetCacheDir()
	if len(dir) == 0 || dir[0] == '~' {
		t.Errorf("expected expanded path, got %q", dir)
	}

	cfg.Model.CacheDir = "/abs/path"
	if cfg.GetCacheDir() != "/abs/path" {
		t.Errorf("absolute path should pass through, got %q", cfg.GetCacheDir())
	}
}

func TestGetAllowedOriginsFallback(t *testing.T) {
	var cfg Config
	origins := cfg.GetAllowedOrigins()
	if len(origins) == 0 {
		t.Fatal("expected fallback origins")
	}

	cfg.Server.AllowedOrigins = []string{"https://app.example.com"}
	origins = cfg.GetAllowedOrigins()
	if len(origins) != 1 || origins[0] != "https://app.example.com" {
		t.Errorf("expected configured origins, got %v", origins)
	}
}

func TestCreateBackupRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	// No file yet: nothing to back up.
	if err := createBackup(path); err != nil {
		t.Fatalf("createBackup on missing file: %v", err)
	}
	if _, err := os.Stat(path + ".back1"); !os.IsNotExist(err) {
		t.Error("expected no backup for missing file")
	}

	for i, content := range []string{"one", "two", "three", "four"} {
		if err := os.WriteFile(path, []byte(content), DefaultFilePermissions); err != nil {
			t.Fatal(err)
		}
		if err := createBackup(path); err != nil {
			t.Fatalf("createBackup round %d: %v", i, err)
		}
	}

	// After four rounds: back1="four", back2="three", back3="two".
	checks := map[string]string{
		path + ".back1": "four",
		path + ".back2": "three",
		path + ".back3": "two",
	}
	for backupPath, want := range checks {
		data, err := os.ReadFile(backupPath)
		if err != nil {
			t.Fatalf("reading %s: %v", backupPath, err)
		}
		if string(data) != want {
			t.Errorf("%s = %q, want %q", filepath.Base(backupPath), data, want)
		}
	}
}

func TestIsBackupFile(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/home/u/.bmt/config.toml.back1", true},
		{"/home/u/.bmt/config.toml.back2", true},
		{"/home/u/.bmt/config.toml.back3", true},
		{"/home/u/.bmt/config.toml", false},
		{"bmt.toml", false},
	}
	for _, tt := range tests {
		if got := isBackupFile(tt.path); got != tt.expected {
			t.Errorf("isBackupFile(%q) = %v, want %v", tt.path, got, tt.expected)
		}
	}
}

func TestWatcherOwnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(""), DefaultFilePermissions); err != nil {
		t.Fatal(err)
	}

	cw, err := NewConfigWatcher(path)
	if err != nil {
		t.Fatalf("NewConfigWatcher() failed: %v", err)
	}
	defer cw.Stop()

	if cw.checkOwnWrite() {
		t.Error("own-write flag should start clear")
	}
	cw.MarkOwnWrite()
	if !cw.checkOwnWrite() {
		t.Error("own-write flag should be set after MarkOwnWrite")
	}
	if cw.checkOwnWrite() {
		t.Error("checkOwnWrite should clear the flag")
	}
}
