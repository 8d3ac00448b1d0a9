// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// ErrInvalidConfig indicates an environment variable could not be parsed.
var ErrInvalidConfig = errors.New("invalid configuration")

// Environment variables read by Load.
const (
	EnvAddr           = "GRIDCHESS_ADDR"
	EnvAllowedOrigins = "GRIDCHESS_ALLOWED_ORIGINS"
	EnvClockSeconds   = "GRIDCHESS_CLOCK_SECONDS"
	EnvLogLevel       = "GRIDCHESS_LOG_LEVEL"
	EnvMatchInterval  = "GRIDCHESS_MATCH_INTERVAL"
)

type Config struct {
	Addr           string        // listen address for the HTTP server
	AllowedOrigins []string      // CORS and websocket origins
	ClockTime      time.Duration // starting time on each side's clock
	LogLevel       log.Level
	MatchInterval  time.Duration // how often the matchmaking queue is polled
}

// Default returns the settings used when nothing is set in the environment.
func Default() Config {
	return Config{
		Addr:           ":3000",
		AllowedOrigins: []string{"http://localhost:5173"},
		ClockTime:      600 * time.Second,
		LogLevel:       log.LevelInfo,
		MatchInterval:  time.Second,
	}
}

// Load reads the environment on top of Default.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup(EnvAddr); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := lookup(EnvAllowedOrigins); ok && v != "" {
		cfg.AllowedOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}
	if v, ok := lookup(EnvClockSeconds); ok && v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return Config{}, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvClockSeconds, v)
		}
		cfg.ClockTime = time.Duration(secs) * time.Second
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		level, err := parseLevel(v)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}
	if v, ok := lookup(EnvMatchInterval); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvMatchInterval, v)
		}
		cfg.MatchInterval = d
	}
	return cfg, nil
}

func parseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return 0, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvLogLevel, s)
}

// OriginList joins AllowedOrigins the way the CORS middleware expects.
func (c Config) OriginList() string {
	return strings.Join(c.AllowedOrigins, ", ")
}
