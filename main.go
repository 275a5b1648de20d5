package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/nosregor/learning-platform/internal/configuration"
	"github.com/nosregor/learning-platform/internal/core"
	"github.com/nosregor/learning-platform/internal/database"

	"go.uber.org/zap"
)

func main() {
	zap.ReplaceGlobals(zap.Must(zap.NewProduction()))

	config := configuration.Read()
	core.NewLogger(config.App.LogLevel)

	shutdownTracing := core.InitTracing(config.Tracing, configuration.AppName)
	defer shutdownTracing()
	core.StartProfiling(config.Pprof, configuration.AppName)

	db := database.InitDB(config.Database)
	store := core.NewCodeStore(config.Cache)
	sender := core.NewSender(config.SMS, config.App.ProductName)

	auditChannel := core.NewAuditChannel()
	core.StartAuditWorker(auditChannel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	core.StartHTTPServer(ctx, config, db, store, sender, auditChannel)

	if err := store.Close(); err != nil {
		zap.L().Error("Failed to close code store", zap.Error(err))
	}
	if err := auditChannel.Close(); err != nil {
		zap.L().Error("Failed to close audit channel", zap.Error(err))
	}
	zap.L().Info("Shutdown complete")
}
