// Package config loads the gridkit configuration file.
//
// The file is TOML and every section is optional:
//
//	[layout]
//	strategy = "columns"
//	columns = 4
//	width = 1024.0
//	formats = ["svg", "json"]
//
//	[cache]
//	dir = "/var/cache/gridkit"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[store.mongo]
//	uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
//
// The [layout] table seeds pipeline.Options; command-line flags the user
// sets explicitly win over it. GRIDKIT_REDIS_ADDR and GRIDKIT_MONGO_URI
// override the file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/speedui/gridkit/pkg/cache"
	"github.com/speedui/gridkit/pkg/errors"
	"github.com/speedui/gridkit/pkg/pipeline"
	"github.com/speedui/gridkit/pkg/store"
)

// AppName names the per-user config and cache directories.
const AppName = "gridkit"

// Environment variables read by Load.
const (
	EnvRedisAddr = "GRIDKIT_REDIS_ADDR"
	EnvMongoURI  = "GRIDKIT_MONGO_URI"
)

// Server defaults.
const (
	DefaultAddr         = ":8080"
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultMaxBody      = 4 << 20
)

// Config is the decoded configuration file.
type Config struct {
	Layout pipeline.Options `toml:"layout"`
	Cache  CacheConfig      `toml:"cache"`
	Store  StoreConfig      `toml:"store"`
	Server ServerConfig     `toml:"server"`
}

// CacheConfig selects the cache backend. Redis wins when it has an
// address; otherwise the file cache under Dir is used.
type CacheConfig struct {
	Dir      string            `toml:"dir"`
	Disabled bool              `toml:"disabled"`
	Redis    cache.RedisConfig `toml:"redis"`
}

// StoreConfig selects the snapshot store of the API server. Without a
// Mongo URI layouts are kept in memory.
type StoreConfig struct {
	Mongo store.MongoConfig `toml:"mongo"`
}

// ServerConfig configures `gridkit serve`.
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	MaxBodyBytes int64         `toml:"max_body_bytes"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

// DefaultPath returns $XDG_CONFIG_HOME/gridkit/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns $XDG_CACHE_HOME/gridkit, falling back to ~/.cache.
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads the file at path. An empty path means DefaultPath, and a
// missing default file is not an error; a missing explicit file is.
// Unknown keys are rejected so that typos do not pass silently.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return finish(Config{})
		}
		path = p
	}

	var c Config
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
			}
			return finish(Config{})
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	return finish(c)
}

func finish(c Config) (Config, error) {
	c.applyEnv()
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Store.Mongo.URI = v
	}
}

func (c *Config) applyDefaults() {
	if c.Cache.Dir == "" {
		if dir, err := CacheDir(); err == nil {
			c.Cache.Dir = dir
		}
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = DefaultMaxBody
	}
}
