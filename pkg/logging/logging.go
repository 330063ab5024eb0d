// Package logging builds the zap loggers used by syncflow components.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	sferrors "github.com/vnykmshr/syncflow/pkg/common/errors"
)

// Config selects the logger flavour and minimum level.
type Config struct {
	// Level is one of debug, info, warn, error, dpanic, panic, fatal. Defaults to info.
	Level string `yaml:"level"`

	// Development switches to console encoding with caller and stack traces on warn.
	Development bool `yaml:"development"`
}

// DefaultConfig returns an info-level production configuration.
func DefaultConfig() Config {
	return Config{Level: "info"}
}

// ParseLevel converts a level name to a zapcore.Level.
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return lvl, sferrors.NewValidationError("logging", "level", level, "unknown level").
			WithHint("use debug, info, warn or error")
	}
	return lvl, nil
}

// New builds a logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	logger, _, err := NewWithLevel(cfg)
	return logger, err
}

// NewWithLevel builds a logger from cfg and returns the level handle that
// controls it, so the level can be changed while the logger is in use.
func NewWithLevel(cfg Config) (*zap.Logger, zap.AtomicLevel, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}

	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := zc.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger, zc.Level, nil
}

// Must is like New but panics on error. Intended for main packages.
func Must(cfg Config) *zap.Logger {
	logger, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return logger
}
