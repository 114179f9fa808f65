// Package config loads settings for the authkeeper terminal client.
//
// Sources, later overriding earlier: defaults, environment, JSON file
// (-c/-config), flags.
//
//	-a string   server base URL
//	-t int      request timeout, seconds
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/authkeeper/internal/flagx"
	"github.com/dmitrijs2005/authkeeper/internal/timex"
)

type Config struct {
	ServerURL string        `env:"AUTH_SERVER_URL"`
	Timeout   time.Duration `env:"AUTH_CLIENT_TIMEOUT"`
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.Timeout = 10 * time.Second
}

type jsonConfig struct {
	ServerURL string         `json:"server_url"`
	Timeout   timex.Duration `json:"timeout"`
}

// Load builds a Config from args (without the program name) and returns the
// positional arguments left after flag parsing.
func Load(args []string) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := env.Parse(cfg); err != nil {
		return nil, nil, fmt.Errorf("parse environment: %w", err)
	}

	if path := flagx.ConfigPath(args); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read config file: %w", err)
		}
		var jc jsonConfig
		if err := json.Unmarshal(data, &jc); err != nil {
			return nil, nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		if jc.ServerURL != "" {
			cfg.ServerURL = jc.ServerURL
		}
		if jc.Timeout.Duration != 0 {
			cfg.Timeout = jc.Timeout.Duration
		}
	}

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "server base URL")
	timeout := fs.Int("t", int(cfg.Timeout.Seconds()), "request timeout (in seconds)")
	// consumed by flagx.ConfigPath above
	fs.String("c", "", "path to JSON config file (short)")
	fs.String("config", "", "path to JSON config file")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.Timeout = time.Duration(*timeout) * time.Second
		}
	})

	return cfg, fs.Args(), nil
}
