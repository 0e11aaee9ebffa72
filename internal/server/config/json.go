package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/handlekeeper/internal/flagx"
	"github.com/dmitrijs2005/handlekeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// "1h" style strings and integer nanoseconds. Pointer fields distinguish
// "absent" from zero values so the file only overrides what it names.
type JsonConfig struct {
	HTTPAddr              string          `json:"http_addr"`
	DatabaseDSN           string          `json:"database_dsn"`
	SecretKey             string          `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	BcryptCost            *int            `json:"bcrypt_cost"`
	HashConcurrency       *int            `json:"hash_concurrency"`
	LogLevel              string          `json:"log_level"`
	LogFormat             string          `json:"log_format"`
	CORSOrigins           []string        `json:"cors_origins"`
	Store                 string          `json:"store"`
	AtomicSignup          *bool           `json:"atomic_signup"`
}

// parseJson overlays values from the file named by -c/-config. Nothing
// happens when no file is given.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.Store, c.Store)

	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.HashConcurrency != nil {
		config.HashConcurrency = *c.HashConcurrency
	}
	if len(c.CORSOrigins) > 0 {
		config.CORSOrigins = c.CORSOrigins
	}
	if c.AtomicSignup != nil {
		config.AtomicSignup = *c.AtomicSignup
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
