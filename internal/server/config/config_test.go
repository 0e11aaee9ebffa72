package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":3000", c.HTTPAddr)
	assert.Empty(t, c.DatabaseDSN)
	assert.Empty(t, c.SecretKey)
	assert.Equal(t, time.Hour, c.TokenValidityDuration)
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, StorePostgres, c.Store)
	assert.False(t, c.AtomicSignup)
}

func validConfig() Config {
	var c Config
	c.LoadDefaults()
	c.SecretKey = "k"
	c.DatabaseDSN = "postgres://localhost/hk"
	return c
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "memory store needs no dsn", mutate: func(c *Config) { c.Store = StoreMemory; c.DatabaseDSN = "" }},
		{name: "missing secret", mutate: func(c *Config) { c.SecretKey = "" }, wantErr: "JWT_SECRET is not configured"},
		{name: "missing dsn", mutate: func(c *Config) { c.DatabaseDSN = "" }, wantErr: "DATABASE_URL is not configured"},
		{name: "unknown store", mutate: func(c *Config) { c.Store = "mongo" }, wantErr: "unknown store"},
		{name: "zero ttl", mutate: func(c *Config) { c.TokenValidityDuration = 0 }, wantErr: "token validity"},
		{name: "cost too low", mutate: func(c *Config) { c.BcryptCost = 3 }, wantErr: "bcrypt cost"},
		{name: "negative concurrency", mutate: func(c *Config) { c.HashConcurrency = -1 }, wantErr: "hash concurrency"},
		{name: "empty addr", mutate: func(c *Config) { c.HTTPAddr = "" }, wantErr: "http address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_FailsWithoutSecret(t *testing.T) {
	stubDotenv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load([]string{"-m", "memory"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is not configured")
}

func TestLoad_Precedence(t *testing.T) {
	stubDotenv(t)
	path := writeTempJSON(t, map[string]any{
		"http_addr":  ":1111",
		"secret_key": "from-json",
		"store":      "memory",
		"log_level":  "debug",
	})
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "")

	cfg, err := Load([]string{"-c", path, "-a", ":2222"})
	require.NoError(t, err)

	assert.Equal(t, ":2222", cfg.HTTPAddr, "flags override json")
	assert.Equal(t, "from-env", cfg.SecretKey, "env overrides json")
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func stubDotenv(t *testing.T) {
	t.Helper()
	orig := loadDotenv
	loadDotenv = func(string) error { return nil }
	t.Cleanup(func() { loadDotenv = orig })
}
