// Package logger builds the application's zap logger from configuration.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xvierd/kaizen/internal/config"
)

const timeLayout = "2006/01/02 15:04:05"

// New builds a logger for cfg. When interactive is true the terminal belongs
// to the TUI, so output goes only to cfg.File and a no-op logger is returned
// when no file is configured. Otherwise logs go to stderr as well.
func New(cfg config.LoggingConfig, interactive bool) (*zap.Logger, error) {
	if cfg.Level == "off" {
		return zap.NewNop(), nil
	}
	if interactive && cfg.File == "" {
		return zap.NewNop(), nil
	}

	level, err := zapcore.ParseLevel(levelOrDefault(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = outputPaths(cfg.File, interactive)
	zc.ErrorOutputPaths = zc.OutputPaths

	if cfg.File != "" {
		// Colors only make sense on a terminal.
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}

func levelOrDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}

func outputPaths(file string, interactive bool) []string {
	switch {
	case file == "":
		return []string{"stderr"}
	case interactive:
		return []string{file}
	default:
		return []string{file, "stderr"}
	}
}
