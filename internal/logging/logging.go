package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Init configures the global zap logger for the given environment and
// returns it so the caller can defer Sync.
func Init(environment string) *zap.Logger {
	config := zap.NewProductionConfig()
	if environment != "production" {
		config = zap.NewDevelopmentConfig()
	}
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	zap.ReplaceGlobals(logger)
	return logger
}
