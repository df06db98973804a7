// Package logger holds the process-wide logger. Logging is off until Init
// is called, so library consumers who never initialize it get silence
// instead of surprise output.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.Mutex
	global *zap.SugaredLogger
)

// Init initializes the global logger. With a non-empty logPath, output goes
// to that file; otherwise to stderr. Debug enables debug-level messages.
func Init(logPath string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		cfg.OutputPaths = []string{logPath}
		cfg.ErrorOutputPaths = []string{logPath}
	} else {
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	global = l.Sugar()
	return nil
}

// Close flushes buffered log entries.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		_ = global.Sync()
	}
}

// Info logs an info message.
func Info(format string, v ...interface{}) {
	if l := get(); l != nil {
		l.Infof(format, v...)
	}
}

// Debug logs a debug message.
func Debug(format string, v ...interface{}) {
	if l := get(); l != nil {
		l.Debugf(format, v...)
	}
}

// Warn logs a warning message.
func Warn(format string, v ...interface{}) {
	if l := get(); l != nil {
		l.Warnf(format, v...)
	}
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	if l := get(); l != nil {
		l.Errorf(format, v...)
	}
}

func get() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	return global
}
