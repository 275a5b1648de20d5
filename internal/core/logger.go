package core

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger replaces the global logger with one honoring the configured
// level. Before configuration is read, main installs a plain production
// logger so early failures are still structured.
func NewLogger(logLevel string) {
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		zap.L().Warn("Unknown log level, falling back to info", zap.String("level", logLevel))
		level = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)

	zap.ReplaceGlobals(zap.Must(config.Build()))
}
