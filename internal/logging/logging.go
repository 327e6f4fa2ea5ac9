// Package logging builds the zap loggers used by the command line tools.
// Library packages never create loggers; they accept one through options and
// default to a no-op logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// EnvLevel names the environment variable that overrides the log level.
const EnvLevel = "FORMENGINE_LOG_LEVEL"

// Config describes where logs go.
type Config struct {
	// Level is one of debug, info, warn or error. Empty falls back to the
	// EnvLevel variable, then to warn.
	Level string
	// File enables JSON logs with rotation at the given path.
	File string
	// Console writes human-readable logs to this writer, usually stderr.
	Console io.Writer
}

// New builds a logger from cfg and returns it with a function that flushes
// buffered entries. With neither a file nor a console configured it returns a
// no-op logger.
func New(cfg Config) (*zap.Logger, func(), error) {
	level, err := ParseLevel(firstNonEmpty(cfg.Level, os.Getenv(EnvLevel)))
	if err != nil {
		return nil, nil, err
	}

	var cores []zapcore.Core
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: create log directory: %w", err)
		}
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    2, // megabytes
			MaxBackups: 5,
			MaxAge:     15, // days
			Compress:   true,
		})
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), fileWriter, level))
	}
	if cfg.Console != nil {
		encoderCfg := zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(cfg.Console), level))
	}
	if len(cores) == 0 {
		return zap.NewNop(), func() {}, nil
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, func() { _ = logger.Sync() }, nil
}

// ParseLevel maps a level name to a zap level. Empty means warn.
func ParseLevel(raw string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zapcore.WarnLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.WarnLevel, fmt.Errorf("logging: unknown level %q", raw)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
