package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/speedui/gridkit/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error: %v", err)
	}
	if want := filepath.Join("/tmp/xdg", "gridkit", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache")
	got, err := CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/cache", "gridkit"); got != want {
		t.Errorf("CacheDir() = %q, want %q", got, want)
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache")
	t.Setenv(EnvRedisAddr, "")
	t.Setenv(EnvMongoURI, "")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", c.Server.Addr, DefaultAddr)
	}
	if c.Cache.Dir != filepath.Join("/tmp/cache", "gridkit") {
		t.Errorf("Cache.Dir = %q", c.Cache.Dir)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvRedisAddr, "")
	t.Setenv(EnvMongoURI, "")
	path := writeConfig(t, `
[layout]
strategy = "columns"
columns = 4
width = 1024.0
line_spacing = 0.0
formats = ["svg", "json"]

[cache]
dir = "/srv/cache"

[cache.redis]
addr = "redis:6379"
dial_timeout = "3s"

[store.mongo]
uri = "mongodb://mongo:27017"
database = "grids"

[server]
addr = ":9090"
read_timeout = "2s"
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"strategy", c.Layout.Strategy, "columns"},
		{"columns", c.Layout.Columns, 4},
		{"width", c.Layout.Width, 1024.0},
		{"formats", len(c.Layout.Formats), 2},
		{"cache dir", c.Cache.Dir, "/srv/cache"},
		{"redis addr", c.Cache.Redis.Addr, "redis:6379"},
		{"redis dial", c.Cache.Redis.DialTimeout, 3 * time.Second},
		{"mongo db", c.Store.Mongo.Database, "grids"},
		{"server addr", c.Server.Addr, ":9090"},
		{"read timeout", c.Server.ReadTimeout, 2 * time.Second},
		{"write timeout default", c.Server.WriteTimeout, DefaultWriteTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if c.Layout.LineSpacing == nil || *c.Layout.LineSpacing != 0 {
		t.Errorf("explicit zero line_spacing lost: %v", c.Layout.LineSpacing)
	}
	if c.Layout.InterItem != nil {
		t.Errorf("unset inter_item_spacing = %v, want nil", *c.Layout.InterItem)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[layout]\nstrategey = \"rows\"\n")
	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Load() error = %v, want INVALID_INPUT", err)
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	path := writeConfig(t, "[layout\n")
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed TOML")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvRedisAddr, "env-redis:6379")
	t.Setenv(EnvMongoURI, "mongodb://env")
	path := writeConfig(t, "[cache.redis]\naddr = \"file-redis:6379\"\n")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Cache.Redis.Addr != "env-redis:6379" {
		t.Errorf("Redis.Addr = %q, want env override", c.Cache.Redis.Addr)
	}
	if c.Store.Mongo.URI != "mongodb://env" {
		t.Errorf("Mongo.URI = %q, want env override", c.Store.Mongo.URI)
	}
}
