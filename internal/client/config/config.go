// Package config loads settings for the handlekeeper CLI: defaults, an
// optional JSON file, environment variables, then flags.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the handlekeeper CLI.
//
// Fields:
//   - ServerURL: base URL of the API, e.g. http://127.0.0.1:3000.
//   - RequestTimeout: per-request HTTP timeout.
type Config struct {
	ServerURL      string        `env:"HANDLEKEEPER_SERVER"`
	RequestTimeout time.Duration `env:"HANDLEKEEPER_TIMEOUT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:3000"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig builds a Config from os.Args and the environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load applies defaults, then JSON (-c/-config), then the environment, then
// flags. Later sources take precedence over earlier ones.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
