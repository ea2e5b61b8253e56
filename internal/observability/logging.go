// Package observability builds the structured loggers shared by the clash
// binaries.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/clash/internal/config"
)

// NewLogger creates a structured logger from the given logging configuration.
// Every entry carries a "component" field naming the binary that wrote it.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig, component string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if component != "" {
		zapCfg.InitialFields = map[string]any{"component": component}
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// SessionLogger scopes logger to one telnet session.
func SessionLogger(logger *zap.Logger, remote, username string) *zap.Logger {
	fields := []zap.Field{zap.String("remote_addr", remote)}
	if username != "" {
		fields = append(fields, zap.String("username", username))
	}
	return logger.With(fields...)
}
