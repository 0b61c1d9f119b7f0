package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPaths []string // hcl files or directories

	LogFormat       string
	LogLevel        string
	HealthcheckPort int // 0 disables the status server
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ManifestPaths) == 0 {
		return nil, errors.New("at least one manifest path is required")
	}
	for _, p := range cfg.ManifestPaths {
		if p == "" {
			return nil, errors.New("manifest paths cannot be empty")
		}
	}
	if cfg.LogLevel != "" {
		if _, ok := parseLevel(cfg.LogLevel); !ok {
			return nil, fmt.Errorf("invalid log level %q", cfg.LogLevel)
		}
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d is out of range", cfg.HealthcheckPort)
	}

	return &cfg, nil
}
