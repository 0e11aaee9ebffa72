package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/handlekeeper/internal/flagx"
)

// portEnv covers the PORT convention used by PaaS hosts.
type portEnv struct {
	Port string `env:"PORT"`
}

// loadDotenv reads the file named by -env, or ./.env when present.
// Variables already set in the process win over the file.
var loadDotenv = func(path string) error {
	if path != "" {
		return godotenv.Load(path)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// parseEnv overlays environment variables onto config. Unset variables leave
// the current value untouched. HTTP_ADDR takes precedence over PORT.
func parseEnv(config *Config, args []string) error {
	if err := loadDotenv(flagx.EnvFileFlag(args)); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}

	var p portEnv
	if err := env.Parse(&p); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if p.Port != "" && os.Getenv("HTTP_ADDR") == "" {
		config.HTTPAddr = ":" + p.Port
	}

	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
