package core

import (
	"github.com/nosregor/learning-platform/internal/models"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

func StartProfiling(config models.PprofConfiguration, serviceName string) {
	if !config.Enabled {
		return
	}

	_, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: serviceName,
		ServerAddress:   config.ServerAddress,
		Logger:          nil,
	})
	if err != nil {
		zap.L().Error("Failed to start profiler", zap.Error(err))
		return
	}
	zap.L().Info("Continuous profiling enabled", zap.String("server", config.ServerAddress))
}
