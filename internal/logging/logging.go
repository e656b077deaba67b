// Package logging builds the zap loggers used by the CLI and the run loops.
package logging

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var ErrEncoding = errors.New("logging: unknown encoding")

// New builds a logger writing to stderr. encoding is "console" or "json".
func New(level, encoding string) (*zap.Logger, error) {
	return build(level, encoding, "stderr")
}

// NewFile builds a logger appending to path, for front-ends that own the
// terminal.
func NewFile(level, encoding, path string) (*zap.Logger, error) {
	return build(level, encoding, path)
}

func build(level, encoding, output string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var enc zapcore.EncoderConfig
	switch encoding {
	case "", "console":
		encoding = "console"
		enc = zap.NewDevelopmentEncoderConfig()
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "json":
		enc = zap.NewProductionEncoderConfig()
	default:
		return nil, fmt.Errorf("%w: %q", ErrEncoding, encoding)
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Encoding:         encoding,
		EncoderConfig:    enc,
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{output},
		DisableCaller:    true,
	}
	return config.Build()
}

// ParseLevel accepts debug, info, warn and error. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zap.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return zap.InfoLevel, fmt.Errorf("logging: %w", err)
	}
	return lvl, nil
}

func Nop() *zap.Logger { return zap.NewNop() }
