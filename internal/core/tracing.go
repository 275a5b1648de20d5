package core

import (
	"context"
	"time"

	"github.com/nosregor/learning-platform/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

// InitTracing sets up the OTLP trace exporter. Returns a shutdown
// function flushing pending spans; a no-op when tracing is disabled.
func InitTracing(config models.TracingConfiguration, serviceName string) func() {
	if !config.Enabled {
		return func() {}
	}

	exporter, err := otlptracehttp.New(
		context.Background(),
		otlptracehttp.WithEndpoint(config.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		zap.L().Fatal("Failed to initialize trace exporter", zap.Error(err))
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		)),
	)
	otel.SetTracerProvider(provider)
	zap.L().Info("Tracing enabled", zap.String("endpoint", config.Endpoint))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			zap.L().Error("Failed to shut down tracer provider", zap.Error(err))
		}
	}
}
