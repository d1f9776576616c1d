package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	req := require.New(t)
	t.Setenv("CONFIG_ENV", "nonexistent")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	req.NoError(err)
	req.Equal("release", cfg.Mode)
	req.Equal(5000, cfg.Port)
	req.Equal(int64(32768), cfg.ReadLimit)
	req.Equal(54*time.Second, cfg.PingPeriod)
	req.Equal(32, cfg.SendBuffer)
	req.Equal(10, cfg.CallRateLimit)
	req.Equal(10*time.Second, cfg.CallRateInterval)
	req.Empty(cfg.AllowedOrigins)
}

func TestLoad_ReadsYAMLFile(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	req.NoError(os.MkdirAll(filepath.Join(dir, "config"), 0o755))

	yaml := `
mode: debug
port: 6001
ping_period: 30s
call_rate_limit: 3
secret: hunter2
allowed_origins:
  - "http://localhost:5173"
  - "https://talksync-a9da2.web.app"
`
	req.NoError(os.WriteFile(filepath.Join(dir, "config", "config.test.yaml"), []byte(yaml), 0o644))

	t.Setenv("CONFIG_ENV", "test")
	t.Chdir(dir)

	cfg, err := Load()
	req.NoError(err)
	req.Equal("debug", cfg.Mode)
	req.Equal(6001, cfg.Port)
	req.Equal(30*time.Second, cfg.PingPeriod)
	req.Equal(3, cfg.CallRateLimit)
	req.Equal("hunter2", cfg.Secret)
	req.Len(cfg.AllowedOrigins, 2)

	// Unset keys keep their defaults.
	req.Equal(32, cfg.SendBuffer)
}
