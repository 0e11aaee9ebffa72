// Package config handles configuration for the server component: defaults,
// an optional JSON file, .env and process environment, and command-line
// flags, applied in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/handlekeeper/internal/common"
)

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds runtime settings for the handlekeeper server.
//
// Fields:
//   - HTTPAddr: bind address for the HTTP API.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Required for the postgres store.
//   - SecretKey: HMAC secret for signing JWTs (HS256). No default.
//   - TokenValidityDuration: lifetime of issued tokens.
//   - BcryptCost: password hashing work factor.
//   - HashConcurrency: max simultaneous bcrypt computations, 0 means NumCPU.
//   - LogLevel / LogFormat: see logging.New.
//   - CORSOrigins: allowed browser origins.
//   - Store: "postgres" or "memory".
//   - AtomicSignup: roll back the new account when token issuance fails.
type Config struct {
	HTTPAddr              string        `env:"HTTP_ADDR"`
	DatabaseDSN           string        `env:"DATABASE_URL"`
	SecretKey             string        `env:"JWT_SECRET"`
	TokenValidityDuration time.Duration `env:"TOKEN_TTL"`
	BcryptCost            int           `env:"BCRYPT_COST"`
	HashConcurrency       int           `env:"HASH_CONCURRENCY"`
	LogLevel              string        `env:"LOG_LEVEL"`
	LogFormat             string        `env:"LOG_FORMAT"`
	CORSOrigins           []string      `env:"CORS_ORIGINS" envSeparator:","`
	Store                 string        `env:"STORE"`
	AtomicSignup          bool          `env:"ATOMIC_SIGNUP"`
}

// LoadDefaults populates Config with development defaults. The signing
// secret and DSN are deliberately left empty.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":3000"
	c.TokenValidityDuration = common.DefaultTokenTTL
	c.BcryptCost = common.DefaultBcryptCost
	c.HashConcurrency = 0
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.CORSOrigins = []string{"http://localhost:5173"}
	c.Store = StorePostgres
	c.AtomicSignup = false
}

// Validate reports the first setting that would prevent the server from
// working. A missing secret is fatal at startup rather than per request.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("JWT_SECRET is not configured")
	}
	if c.HTTPAddr == "" {
		return errors.New("http address is empty")
	}
	switch c.Store {
	case StorePostgres:
		if c.DatabaseDSN == "" {
			return errors.New("DATABASE_URL is not configured")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.TokenValidityDuration <= 0 {
		return fmt.Errorf("token validity must be positive, got %s", c.TokenValidityDuration)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost must be between 4 and 31, got %d", c.BcryptCost)
	}
	if c.HashConcurrency < 0 {
		return fmt.Errorf("hash concurrency must not be negative, got %d", c.HashConcurrency)
	}
	return nil
}

// LoadConfig builds a validated Config from os.Args.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds a Config by applying defaults, then overlaying an optional
// JSON file, the environment, and finally command-line flags from args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
