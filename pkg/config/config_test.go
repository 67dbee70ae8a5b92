package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.True(t, cfg.Debug)
	require.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	require.Equal(t, "mysql", cfg.DB.Driver)
	require.Equal(t, "127.0.0.1", cfg.DB.Host)
	require.Equal(t, 3306, cfg.DB.Port)
	require.Equal(t, "root", cfg.DB.User)
	require.Equal(t, "awesome", cfg.DB.Database)
	require.Equal(t, "Awesome", cfg.Session.Secret)
	require.Equal(t, 24*time.Hour, cfg.Session.MaxAge)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 5*time.Minute, cfg.Redis.DefaultTTL)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("no file no env is default", func(t *testing.T) {
		t.Parallel()
		cfg, err := load("", map[string]string{})
		require.NoError(t, err)
		require.Equal(t, Default(), cfg)
	})

	t.Run("file overrides nested keys only", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "debug: false\ndb:\n  host: db.internal\nsession:\n  secret: s3cret\n")

		cfg, err := load(path, map[string]string{})
		require.NoError(t, err)
		require.False(t, cfg.Debug)
		require.Equal(t, "db.internal", cfg.DB.Host)
		require.Equal(t, 3306, cfg.DB.Port)
		require.Equal(t, "root", cfg.DB.User)
		require.Equal(t, "s3cret", cfg.Session.Secret)
		require.Equal(t, 24*time.Hour, cfg.Session.MaxAge)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "db:\n  host: db.internal\n  port: 3307\n")

		cfg, err := load(path, map[string]string{
			"DATABASE_PORT":  "5432",
			"SERVER_ADDR":    ":8080",
			"REDIS_URL":      "redis://cache:6379/0",
			"SESSION_SECURE": "true",
			"LOG_LEVEL":      "debug",
		})
		require.NoError(t, err)
		require.Equal(t, "db.internal", cfg.DB.Host)
		require.Equal(t, 5432, cfg.DB.Port)
		require.Equal(t, ":8080", cfg.Server.Addr)
		require.Equal(t, "redis://cache:6379/0", cfg.Redis.URL)
		require.True(t, cfg.Session.Secure)
		require.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("unset env keeps file values", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "log:\n  level: warn\n")

		cfg, err := load(path, map[string]string{})
		require.NoError(t, err)
		require.Equal(t, "warn", cfg.Log.Level)
	})

	t.Run("env equal to its default still overrides file", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "debug: false\nserver:\n  addr: 0.0.0.0:8080\nlog:\n  level: warn\n")

		cfg, err := load(path, map[string]string{
			"DEBUG":       "true",
			"SERVER_ADDR": "127.0.0.1:9000",
			"LOG_LEVEL":   "info",
		})
		require.NoError(t, err)
		require.True(t, cfg.Debug)
		require.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
		require.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("empty env keeps file value", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "server:\n  addr: 0.0.0.0:8080\n")

		cfg, err := load(path, map[string]string{"SERVER_ADDR": ""})
		require.NoError(t, err)
		require.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
		require.ErrorIs(t, err, ErrReadFile)
	})

	t.Run("bad yaml", func(t *testing.T) {
		t.Parallel()
		_, err := load(writeFile(t, "db: [\n"), nil)
		require.ErrorIs(t, err, ErrParseYAML)
	})

	t.Run("bad env value", func(t *testing.T) {
		t.Parallel()
		_, err := load("", map[string]string{"DATABASE_PORT": "abc"})
		require.ErrorIs(t, err, ErrParseEnv)
	})
}
