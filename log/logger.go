// Package log provides the zap loggers used across labelbind, and the wire
// format guests use to send log records to the host.
package log

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger   = zap.NewNop()
	loggerMu sync.RWMutex
)

// L returns the package-level logger. It is a no-op logger until SetLogger
// is called.
func L() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SetLogger replaces the package-level logger. A nil logger resets it to a
// no-op logger.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// Option configures a logger built by New.
type Option func(*loggerConfig)

type loggerConfig struct {
	level       zapcore.Level
	development bool
	addSource   bool
}

func defaultLoggerConfig() loggerConfig {
	return loggerConfig{
		level: zapcore.InfoLevel,
	}
}

// WithLevel sets the minimum level to report.
func WithLevel(level zapcore.Level) Option {
	return func(c *loggerConfig) {
		c.level = level
	}
}

// WithDevelopment switches to the console encoder used during development.
func WithDevelopment(enabled bool) Option {
	return func(c *loggerConfig) {
		c.development = enabled
	}
}

// WithSource enables reporting of the caller (file:line).
func WithSource(enabled bool) Option {
	return func(c *loggerConfig) {
		c.addSource = enabled
	}
}

// New builds a zap logger writing to stderr.
func New(opts ...Option) (*zap.Logger, error) {
	cfg := defaultLoggerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	zcfg := zap.NewProductionConfig()
	if cfg.development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(cfg.level)
	zcfg.DisableCaller = !cfg.addSource
	zcfg.OutputPaths = []string{"stderr"}

	l, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l, nil
}

// ParseLevel converts a level name ("debug", "info", "warn", "error") to a
// zap level.
func ParseLevel(name string) (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}
