// Package logger provides named zap sugared loggers sharing one process-wide core.
package logger

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level string
	// Mode "production" switches to JSON output.
	Mode string
	// File enables an additional rotating JSON log file.
	File string
}

var (
	mu   sync.RWMutex
	root = zap.NewNop()
)

// Init replaces the root logger. Loggers obtained before Init keep the previous core.
func Init(cfg Config) error {
	level := zap.NewAtomicLevel()
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return fmt.Errorf("parse log level %q: %w", cfg.Level, err)
		}
	}

	var encoder zapcore.Encoder
	if cfg.Mode == "production" {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level),
	}
	if cfg.File != "" {
		rotate := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotate),
			level,
		))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller())

	mu.Lock()
	root = l
	mu.Unlock()
	zap.ReplaceGlobals(l)
	return nil
}

// MustNamed returns a sugared logger scoped to name.
func MustNamed(name string) *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return root.Named(name).Sugar()
}

// Root returns the unsugared root logger, used to bridge framework loggers.
func Root() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

func Sync() {
	_ = Root().Sync()
}
