// Package logging builds the zap loggers used by the command-line tools.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rgehrsitz/nestegg/internal/config"
)

// New builds a logger from cfg. Unknown levels fall back to info and any
// encoding other than "json" uses the console encoder. Logs go to stderr so
// report output on stdout stays clean.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	return NewWithOutput(cfg, "stderr")
}

// NewWithOutput is New writing to path, a file or one of zap's "stdout" and
// "stderr" sinks.
func NewWithOutput(cfg config.LogConfig, path string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoding := "console"
	if cfg.Encoding == "json" {
		encoding = "json"
	}

	zc := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       cfg.Development,
		Encoding:          encoding,
		DisableCaller:     !cfg.Development,
		DisableStacktrace: !cfg.Development,
		EncoderConfig:     zap.NewProductionEncoderConfig(),
		OutputPaths:       []string{path},
		ErrorOutputPaths:  []string{"stderr"},
	}

	if encoding == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	return zc.Build()
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}
