// Package logger builds the zap logger shared by the server and the CLI:
// a rotated JSON file core teed with an optional console core.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the logger
type Options struct {
	File       string
	Level      string
	Production bool
	// Console also writes to stderr. The CLI leaves it off so command
	// output on stdout stays clean.
	Console bool
}

// New creates a logger from opts. An empty File disables the file core.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	jsonEncoder := zapcore.NewJSONEncoder(encoderConfig)

	var cores []zapcore.Core

	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create log directory: %w", err)
			}
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(jsonEncoder, zapcore.AddSync(rotator), level))
	}

	if opts.Console {
		consoleEncoder := jsonEncoder
		if !opts.Production {
			consoleEncoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		}
		cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), level))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
