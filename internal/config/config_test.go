package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "c29tZV9zZWNyZXQ="

func TestNewConfig(t *testing.T) {
	var (
		addr = "localhost:8080"
		dsn  = "host=localhost user=postgres password=postgres dbname=postgres sslmode=disable"
	)

	tcases := []struct {
		name   string
		values map[string]any
		err    bool
	}{
		{
			name:   "valid postgres config",
			values: map[string]any{"server.addr": addr, "database.driver": "postgres", "database.dsn": dsn, "auth.signing_key": testKey},
		},
		{
			name:   "memory driver needs no DSN",
			values: map[string]any{"server.addr": addr, "database.driver": "memory", "auth.signing_key": testKey},
		},
		{
			name:   "empty address",
			values: map[string]any{"server.addr": "", "database.driver": "memory", "auth.signing_key": testKey},
			err:    true,
		},
		{
			name:   "empty DSN",
			values: map[string]any{"server.addr": addr, "database.driver": "postgres", "auth.signing_key": testKey},
			err:    true,
		},
		{
			name:   "unknown driver",
			values: map[string]any{"server.addr": addr, "database.driver": "mongo", "auth.signing_key": testKey},
			err:    true,
		},
		{
			name:   "empty signing key",
			values: map[string]any{"server.addr": addr, "database.driver": "memory"},
			err:    true,
		},
		{
			name:   "signing key not base64",
			values: map[string]any{"server.addr": addr, "database.driver": "memory", "auth.signing_key": "%%%"},
			err:    true,
		},
		{
			name:   "bad log level",
			values: map[string]any{"server.addr": addr, "database.driver": "memory", "auth.signing_key": testKey, "log.level": "loud"},
			err:    true,
		},
		{
			name:   "mail host without sender",
			values: map[string]any{"server.addr": addr, "database.driver": "memory", "auth.signing_key": testKey, "mail.host": "smtp.example.com"},
			err:    true,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			v := viper.New()
			v.SetDefault("log.level", "info")
			v.SetDefault("auth.token_ttl", time.Hour)
			v.SetDefault("ratelimit.rps", 1)
			v.SetDefault("ratelimit.burst", 1)
			for k, val := range tc.values {
				v.Set(k, val)
			}

			cfg, err := NewConfig(v)
			if tc.err {
				assert.Error(t, err, "expected error for test case: %s", tc.name)
				assert.Nil(t, cfg, "expected nil config for test case: %s", tc.name)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, addr, cfg.ServerAddr)
			assert.Equal(t, []byte("some_secret"), cfg.SigningKey)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("flags and environment", func(t *testing.T) {
		t.Setenv("CAMPUS_AUTH_SIGNING_KEY", testKey)
		t.Setenv("CAMPUS_DATABASE_DSN", "postgres://env")

		cfg, err := Load([]string{"--addr", ":9090"})
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.ServerAddr)
		assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
		assert.Equal(t, "postgres://env", cfg.DatabaseDSN)
		assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.False(t, cfg.Mail.Enabled())
	})

	t.Run("config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "campus.toml")
		contents := `
[server]
addr = ":7000"
allowed_origins = ["https://campus.example"]

[database]
driver = "memory"

[auth]
signing_key = "` + testKey + `"
token_ttl = "24h"

[mail]
host = "smtp.example.com"
from = "noreply@campus.example"
`
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

		cfg, err := Load([]string{"--config", path})
		require.NoError(t, err)
		assert.Equal(t, ":7000", cfg.ServerAddr, "file outranks unchanged flag defaults")
		assert.Equal(t, []string{"https://campus.example"}, cfg.AllowedOrigins)
		assert.Equal(t, DriverMemory, cfg.DatabaseDriver)
		assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
		assert.True(t, cfg.Mail.Enabled())
		assert.Equal(t, 587, cfg.Mail.Port)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := Load([]string{"--nope"})
		assert.Error(t, err)
	})
}
