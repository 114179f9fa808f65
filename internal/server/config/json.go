package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
	"github.com/dmitrijs2005/authkeeper/internal/timex"
)

// JSONConfig mirrors Config for JSON files. Durations accept either a Go
// duration string such as "15m" or integer nanoseconds.
type JSONConfig struct {
	Address         string         `json:"address"`
	DatabaseDSN     string         `json:"database_dsn"`
	SecretKey       string         `json:"secret_key"`
	AccessTokenTTL  timex.Duration `json:"access_token_ttl"`
	RefreshTokenTTL timex.Duration `json:"refresh_token_ttl"`
	SweepInterval   timex.Duration `json:"sweep_interval"`
	LogLevel        string         `json:"log_level"`
	AllowedOrigins  []string       `json:"allowed_origins"`
}

// parseJSON overlays the file named by -c/-config onto config. Fields absent
// from the file keep their current value. No flag means nothing to load.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JSONConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.Address, c.Address)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	if c.AccessTokenTTL.Duration != 0 {
		config.AccessTokenTTL = c.AccessTokenTTL.Duration
	}
	if c.RefreshTokenTTL.Duration != 0 {
		config.RefreshTokenTTL = c.RefreshTokenTTL.Duration
	}
	if c.SweepInterval.Duration != 0 {
		config.SweepInterval = c.SweepInterval.Duration
	}
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
