// Package telemetry configures OpenTelemetry tracing for the server.
package telemetry

import (
	"context" // Exporter setup and shutdown

	"github.com/sirupsen/logrus"                                      // Structured logging
	"go.opentelemetry.io/otel"                                        // Global tracer provider
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc" // OTLP gRPC exporter
	"go.opentelemetry.io/otel/sdk/resource"                           // Service resource
	"go.opentelemetry.io/otel/sdk/trace"                              // Tracer provider
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"                // Semantic conventions
)

// Setup installs a global tracer provider exporting to endpoint over OTLP/gRPC.
// With no endpoint tracing stays disabled. The returned func flushes and stops the exporter.
func Setup(serviceName, endpoint string, insecure bool) func(context.Context) error {
	if endpoint == "" {
		return func(context.Context) error { return nil }
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(context.Background(), opts...)
	if err != nil {
		logrus.WithError(err).Warn("Tracing disabled: exporter setup failed")
		return func(context.Context) error { return nil }
	}

	res, err := resource.New(context.Background(), resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		logrus.WithError(err).Warn("Tracing resource incomplete")
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	logrus.WithFields(logrus.Fields{"endpoint": endpoint, "service": serviceName}).Info("Tracing enabled")

	return provider.Shutdown
}
