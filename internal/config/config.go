// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything tunable from the environment. Defaults are
// chosen so a bare `go run .` serves localhost development.
type Config struct {
	Port            string        `env:"PORT" envDefault:"4000"`
	OriginPatterns  []string      `env:"ORIGIN_PATTERNS" envDefault:"localhost:3000"`
	StaticDir       string        `env:"STATIC_DIR" envDefault:"static"`
	SendBuffer      int           `env:"SEND_BUFFER" envDefault:"64"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses the process environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("could not parse environment: %w", err)
	}
	return &cfg, nil
}
