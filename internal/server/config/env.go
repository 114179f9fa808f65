package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// dotenvPath is the file loaded into the environment before parsing. Values
// already present in the environment win over the file.
var dotenvPath = ".env"

// parseEnv overlays environment variables onto config. Variables that are
// not set leave the current value untouched.
func parseEnv(config *Config) error {
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", dotenvPath, err)
	}

	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
