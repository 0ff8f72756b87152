// Package logger wraps a process-wide zap sugared logger. Call sites log
// key/value pairs: logger.Info("schema migrated", "version", v).
package logger

import (
	"os"

	"go.uber.org/zap"
)

// Logger is the subset handed to packages that take a logger value
// (the fasthttp server wants Printf).
type Logger interface {
	Debug(msg string, values ...any)
	Info(msg string, values ...any)
	Warn(msg string, values ...any)
	Error(msg string, values ...any)
	Printf(format string, args ...any)
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

var std *zapLogger

func init() {
	cfg := zap.NewDevelopmentConfig()
	if os.Getenv("LOG_ENV") == "production" {
		cfg = zap.NewProductionConfig()
	}
	if err := Configure(cfg); err != nil {
		panic(err)
	}
}

// Configure rebuilds the process logger from a zap config. The init default
// is fine for almost everything; cmd binaries call this when they want
// production encoding.
func Configure(cfg zap.Config) error {
	l, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		return err
	}
	std = &zapLogger{sugar: l.Sugar()}
	return nil
}

// Get returns the process logger for injection into other packages.
func Get() Logger {
	if std == nil {
		panic("logger: not configured")
	}
	return std
}

func (l *zapLogger) Debug(msg string, values ...any) { l.sugar.Debugw(msg, values...) }
func (l *zapLogger) Info(msg string, values ...any)  { l.sugar.Infow(msg, values...) }
func (l *zapLogger) Warn(msg string, values ...any)  { l.sugar.Warnw(msg, values...) }
func (l *zapLogger) Error(msg string, values ...any) { l.sugar.Errorw(msg, values...) }
func (l *zapLogger) Printf(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

func Debug(msg string, values ...any) { std.Debug(msg, values...) }
func Info(msg string, values ...any)  { std.Info(msg, values...) }
func Warn(msg string, values ...any)  { std.Warn(msg, values...) }
func Error(msg string, values ...any) { std.Error(msg, values...) }

// Fatal logs the error and exits; reserved for unrecoverable startup
// failures such as a failed schema migration.
func Fatal(err error, values ...any) {
	std.sugar.Fatalw(err.Error(), values...)
}
