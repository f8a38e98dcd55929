// Package logger provides the zap-backed structured logger shared by the
// dashboard and the stub API.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns a singleton logger configured with the provided level that
// writes to path, or to stdout when path is empty. The first call
// initializes the logger; later calls return the same instance.
func Get(level, path string) *Logger {
	once.Do(func() {
		globalLogger = build(level, path)
	})
	return globalLogger
}

// build returns a Nop logger when the log file cannot be opened, since
// stdout belongs to the terminal UI.
func build(level, path string) *Logger {
	l, err := newZapLogger(level, path)
	if err != nil {
		return Nop()
	}
	return l
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}
