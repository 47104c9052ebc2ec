// Package logging provides the process-wide structured logger. It mirrors
// the call shape of safedep/dry/log (Debugf/Infof/Warnf/Errorf) on top of
// zap directly, since dry/log itself is not resolvable outside SafeDep's org.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.Mutex
	logger *zap.SugaredLogger
)

// Init configures the package logger. Safe to call more than once; the last
// call wins. debug=true switches to development mode (console encoder,
// caller info, debug level).
func Init(debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	l, err := cfg.Build()
	if err != nil {
		return err
	}

	logger = l.Sugar()
	return nil
}

func get() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()

	if logger == nil {
		l, err := zap.NewProduction()
		if err != nil {
			l = zap.NewNop()
		}
		logger = l.Sugar()
	}

	return logger
}

func Debugf(template string, args ...interface{}) {
	get().Debugf(template, args...)
}

func Infof(template string, args ...interface{}) {
	get().Infof(template, args...)
}

func Warnf(template string, args ...interface{}) {
	get().Warnf(template, args...)
}

func Errorf(template string, args ...interface{}) {
	get().Errorf(template, args...)
}

// Sync flushes any buffered log entries. Call during shutdown.
func Sync() {
	mu.Lock()
	l := logger
	mu.Unlock()

	if l != nil {
		_ = l.Sync()
	}
}
