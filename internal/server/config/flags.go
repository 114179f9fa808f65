package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
)

// parseFlags overlays command-line flags onto config.
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-d string   PostgreSQL DSN, empty for the in-memory store
//	-s string   JWT HMAC secret key
//	-t int      access token lifetime, minutes
//	-r int      refresh token lifetime, minutes
//	-w int      expired refresh token sweep interval, minutes (0 disables)
//	-l string   log level: debug, info, warn, error
//
// Flags owned by other parsers (-c/-config) are filtered out first.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-r", "-w", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.Address, "a", config.Address, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	accessTTL := fs.Int("t", int(config.AccessTokenTTL.Minutes()), "access token lifetime (in minutes)")
	refreshTTL := fs.Int("r", int(config.RefreshTokenTTL.Minutes()), "refresh token lifetime (in minutes)")
	sweep := fs.Int("w", int(config.SweepInterval.Minutes()), "expired token sweep interval (in minutes)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// only explicitly passed flags override sub-minute values from earlier sources
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenTTL = time.Duration(*accessTTL) * time.Minute
		case "r":
			config.RefreshTokenTTL = time.Duration(*refreshTTL) * time.Minute
		case "w":
			config.SweepInterval = time.Duration(*sweep) * time.Minute
		}
	})
	return nil
}
