// Package logger builds the zap logger used by the pointshell binary.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger for env. Production logs JSON at Info level. Any
// other environment logs colored console output at Info level, or at Debug
// level when env is "debug".
func New(env string) (*zap.Logger, error) {
	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		config = zap.NewDevelopmentConfig()
		// Debug entries would interleave with the shell prompt.
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		if env == "debug" {
			config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		}
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return config.Build()
}

// Sync flushes buffered entries. Errors from syncing terminals are ignored.
func Sync(log *zap.Logger) {
	if log != nil {
		_ = log.Sync()
	}
}
