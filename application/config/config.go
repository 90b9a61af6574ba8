// Package config loads labelbind settings from LABELBIND_* environment
// variables.
package config

import (
	stdErrors "errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/reglet-dev/labelbind/application/validation"
	"github.com/reglet-dev/labelbind/domain/errors"
)

// DefaultPrefix is the label used by the demo entry point.
const DefaultPrefix = "pybind example"

// defaultPrefixEnv is parsed without envDefault: env substitutes defaults
// for variables that are set but empty, and "" is a valid label.
const defaultPrefixEnv = "LABELBIND_DEFAULT_PREFIX"

// Config controls logging, the demo printer and the WebAssembly host module.
type Config struct {
	LogLevel       string `env:"LABELBIND_LOG_LEVEL"        envDefault:"info"           validate:"oneof=debug info warn error"`
	DefaultPrefix  string `env:"LABELBIND_DEFAULT_PREFIX"`
	HostModule     string `env:"LABELBIND_HOST_MODULE"      envDefault:"labelbind"      validate:"required"`
	MaxRequestSize uint32 `env:"LABELBIND_MAX_REQUEST_SIZE" envDefault:"1048576"        validate:"gt=0"`
}

// Default returns the configuration used when no environment is set.
func Default() Config {
	return Config{
		LogLevel:       "info",
		DefaultPrefix:  DefaultPrefix,
		HostModule:     "labelbind",
		MaxRequestSize: 1024 * 1024,
	}
}

// Option overrides a loaded setting.
type Option func(*Config)

// WithLogLevel sets the logging verbosity level.
func WithLogLevel(level string) Option {
	return func(c *Config) {
		c.LogLevel = level
	}
}

// WithDefaultPrefix sets the label of the demo printer.
func WithDefaultPrefix(prefix string) Option {
	return func(c *Config) {
		c.DefaultPrefix = prefix
	}
}

// WithHostModule sets the WebAssembly host module name.
func WithHostModule(name string) Option {
	return func(c *Config) {
		if name != "" {
			c.HostModule = name
		}
	}
}

// Load parses the environment, applies opts and validates the result.
func Load(opts ...Option) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, &errors.ConfigError{Err: fmt.Errorf("parse env: %w", err)}
	}
	if _, ok := os.LookupEnv(defaultPrefixEnv); !ok {
		cfg.DefaultPrefix = DefaultPrefix
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cfg and reports the first invalid field as
// *errors.ConfigError.
func Validate(cfg Config) error {
	err := validation.NewStructValidator().Validate(&cfg)
	if err == nil {
		return nil
	}
	var ve *errors.ValidationError
	if stdErrors.As(err, &ve) {
		return &errors.ConfigError{Field: ve.Field, Err: ve.Err}
	}
	return &errors.ConfigError{Err: err}
}
