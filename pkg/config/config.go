// Package config loads application settings in three layers: built-in
// defaults, an optional YAML override file, then environment variables.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/awesome/pkg/cache"
	"github.com/dmitrymomot/awesome/pkg/db"
	"github.com/dmitrymomot/awesome/pkg/logger"
)

var (
	ErrReadFile  = errors.New("config: failed to read override file")
	ErrParseYAML = errors.New("config: failed to parse override file")
	ErrParseEnv  = errors.New("config: failed to parse environment")
)

// Config is the complete application configuration.
type Config struct {
	Debug   bool              `env:"DEBUG" envDefault:"true" yaml:"debug"`
	Server  ServerConfig      `envPrefix:"SERVER_" yaml:"server"`
	DB      db.Config         `yaml:"db"`
	Session SessionConfig     `envPrefix:"SESSION_" yaml:"session"`
	Log     logger.Config     `yaml:"log"`
	Redis   cache.RedisConfig `envPrefix:"REDIS_" yaml:"redis"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `env:"ADDR" envDefault:"127.0.0.1:9000" yaml:"addr"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s" yaml:"shutdown_timeout"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s" yaml:"request_timeout"`
	MetricsPath     string        `env:"METRICS_PATH" envDefault:"/metrics" yaml:"metrics_path"`
}

// SessionConfig holds session cookie settings.
type SessionConfig struct {
	Secret   string        `env:"SECRET" envDefault:"Awesome" yaml:"secret"`
	MaxAge   time.Duration `env:"MAX_AGE" envDefault:"24h" yaml:"max_age"`
	Secure   bool          `env:"SECURE" yaml:"secure"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"1m" yaml:"cache_ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	cfg := tagDefaults()
	cfg.DB.Host = "127.0.0.1"
	cfg.DB.Port = 3306
	cfg.DB.User = "root"
	cfg.DB.Password = "111111"
	cfg.DB.Database = "awesome"
	return cfg
}

// Load returns Default merged with the YAML file at path, if path is not
// empty, then with environment variables. Keys missing from the file keep
// their defaults. Only variables that are set override the file.
func Load(path string) (Config, error) {
	return load(path, env.ToMap(os.Environ()))
}

func load(path string, environ map[string]string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Join(ErrReadFile, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Join(ErrParseYAML, err)
		}
	}

	// envDefault values are already in cfg; skip them here so that only
	// variables present in the environment replace file values.
	if err := env.ParseWithOptions(&cfg, env.Options{
		Environment:         environ,
		DefaultValueTagName: noDefaultTag,
	}); err != nil {
		return Config{}, errors.Join(ErrParseEnv, err)
	}

	return cfg, nil
}

// noDefaultTag names a struct tag no field carries.
const noDefaultTag = "envOverrideDefault"

// tagDefaults returns a Config holding only envDefault values.
func tagDefaults() Config {
	var cfg Config
	_ = env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}})
	return cfg
}
