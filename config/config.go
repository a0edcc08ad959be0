// Package config reads the runtime settings from ACTION_* environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/on-the-ground/action_ive_go/actions"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config mirrors the ACTION_* variables; see keys.go for the full names.
type Config struct {
	Env    string `env:"ENV" envDefault:"development"`
	Prefix string `env:"PREFIX"`

	DispatchBufferSize int `env:"DISPATCH_BUFFER_SIZE" envDefault:"16"`
	DispatchNumWorkers int `env:"DISPATCH_NUM_WORKERS" envDefault:"1"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: KeyPrefix + delimiter}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var err error
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		err = multierr.Append(err, fmt.Errorf("%s: unknown environment %q", KeyEnv, c.Env))
	}
	if c.DispatchBufferSize < 1 {
		err = multierr.Append(err, fmt.Errorf("%s: must be positive, got %d", KeyDispatchBufferSize, c.DispatchBufferSize))
	}
	if c.DispatchNumWorkers < 1 {
		err = multierr.Append(err, fmt.Errorf("%s: must be positive, got %d", KeyDispatchNumWorkers, c.DispatchNumWorkers))
	}
	if _, lerr := zapcore.ParseLevel(c.LogLevel); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("%s: %w", KeyLogLevel, lerr))
	}
	return err
}

func (c Config) Production() bool {
	return c.Env == EnvProduction
}

// FactoryOptions translates the settings into options for actions.NewFactory.
func (c Config) FactoryOptions() []actions.FactoryOption {
	opts := []actions.FactoryOption{actions.WithPrefix(c.Prefix)}
	if c.Production() {
		opts = append(opts, actions.Production())
	}
	return opts
}

// ZapLevel returns the configured level, or info if it does not parse.
func (c Config) ZapLevel() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
