// Package logging builds the zap logger shared by every component.
// Logs go to stderr; stdout is left to the harness's own confirmation output.
// Each component logs through a child named after its Category.
package logging

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dummymodule/internal/config"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot     Category = "boot"     // Startup, config loading
	CategoryFlags    Category = "flags"    // Argument tokenizing
	CategoryInput    Category = "input"    // Upstream artifact resolution
	CategoryEval     Category = "eval"     // Expression guards and evaluation
	CategoryDispatch Category = "dispatch" // Pipeline steps and artifacts
	CategoryMetrics  Category = "metrics"  // Textfile export
)

// EnvVerbose forces debug logging regardless of config when set to a true value.
const EnvVerbose = "DUMMYMODULE_VERBOSE"

// Field keys shared across components.
const (
	FieldRunID    = "run_id"
	FieldStep     = "step"
	FieldArtifact = "artifact"
	FieldPath     = "path"
	FieldBytes    = "bytes"
)

// ParseLevel maps a config level to a zap level. Unknown levels are info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a logger from cfg. JSON output uses zap's production encoder;
// console output uses the development encoder.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	level := ParseLevel(cfg.Level)
	if verbose, _ := strconv.ParseBool(os.Getenv(EnvVerbose)); verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// For returns the child logger for a category. A nil parent yields a no-op
// logger.
func For(parent *zap.Logger, category Category) *zap.Logger {
	if parent == nil {
		return zap.NewNop()
	}
	return parent.Named(string(category))
}

// ArtifactWritten records a file produced by the harness.
func ArtifactWritten(logger *zap.Logger, artifact, path string, size int) {
	logger.Info("artifact written",
		zap.String(FieldArtifact, artifact),
		zap.String(FieldPath, path),
		zap.Int(FieldBytes, size),
	)
}
