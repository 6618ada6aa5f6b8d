package util

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the console logger shared by the collectors. level is
// one of debug|info|warn|error; anything unparsable falls back to info.
func NewLogger(level string) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

// NopLogger discards everything. Production mode and tests use it.
func NopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
