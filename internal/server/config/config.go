// Package config handles configuration for the auth server: defaults, then
// .env and environment variables, then an optional JSON file, then
// command-line flags. Each later source overrides the earlier ones.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the auth server.
//
// SecretKey has no default. The server refuses to start without one.
// An empty DatabaseDSN selects the in-memory credential store.
type Config struct {
	Address         string        `env:"AUTH_ADDRESS"`
	DatabaseDSN     string        `env:"DATABASE_DSN"`
	SecretKey       string        `env:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL"`
	SweepInterval   time.Duration `env:"SWEEP_INTERVAL"`
	LogLevel        string        `env:"LOG_LEVEL"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Address = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = ""
	c.AccessTokenTTL = 15 * time.Minute
	c.RefreshTokenTTL = 30 * 24 * time.Hour
	c.SweepInterval = time.Hour
	c.LogLevel = "info"
	c.AllowedOrigins = []string{"*"}
}

// LoadConfig builds a Config from every source, in precedence order.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
