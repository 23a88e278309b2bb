// Package kvlog wraps go.uber.org/zap for the ambient structured logging
// pkg/kvstore emits one line per mutating operation to, mirroring the
// teacher's pkg/node/pkg/peering logging conventions.
package kvlog

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.Logger for the given level ("debug", "info", "warn",
// "error"), using zap's development encoder config for readability the
// way the teacher's test suites call zap.NewDevelopment().
func New(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("kvlog: unknown log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("kvlog: build logger: %w", err)
	}
	return logger, nil
}

// Nop returns a logger that discards everything, the default for
// pkg/kvstore.Store when no logger is supplied.
func Nop() *zap.Logger {
	return zap.NewNop()
}
