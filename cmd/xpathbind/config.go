package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joeshaw/envdecode"
)

// Config holds defaults taken from the environment. Flags win over it.
type Config struct {
	// Format of eval input, "xml" or "html". ENV: XPATHBIND_FORMAT
	Format string `env:"XPATHBIND_FORMAT,default=xml"`
	// LogLevel is one of debug, info, warn, error. ENV: XPATHBIND_LOG_LEVEL
	LogLevel string `env:"XPATHBIND_LOG_LEVEL,default=info"`
	// Overlay is a YAML overlay file linted by check. ENV: XPATHBIND_OVERLAY
	Overlay string `env:"XPATHBIND_OVERLAY"`
}

func loadConfig() (Config, error) {
	var cfg Config

	err := envdecode.Decode(&cfg)
	if err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}

	if cfg.Format == "" {
		cfg.Format = "xml"
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(strings.ToUpper(s)))
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}

	return level, nil
}
