package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/davenwood/prism/internal/event"
	"github.com/davenwood/prism/internal/kernel"
)

// EnvConfig is the kernel configuration read from the environment.
// Flags take precedence over these values where a command exposes them.
type EnvConfig struct {
	MaxLogs  int    `env:"PRISM_MAX_LOGS" envDefault:"1000"`
	LogLevel string `env:"PRISM_LOG_LEVEL" envDefault:"debug"`
	Disabled bool   `env:"PRISM_DISABLED" envDefault:"false"`
}

// LoadEnvConfig reads PRISM_* environment variables.
func LoadEnvConfig() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// KernelOptions converts the config into kernel construction options.
func (c EnvConfig) KernelOptions() ([]kernel.Option, error) {
	level, err := event.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("PRISM_LOG_LEVEL: %w", err)
	}
	opts := []kernel.Option{
		kernel.WithMaxLogs(c.MaxLogs),
		kernel.WithLogLevel(level),
	}
	if c.Disabled {
		opts = append(opts, kernel.WithDisabled())
	}
	return opts, nil
}
