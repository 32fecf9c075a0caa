// Package telemetry wires the OpenTelemetry tracer provider.
package telemetry

import (
	"context"

	"github.com/CzarAl/domus-backend/internal/config"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Setup installs a batching OTLP/gRPC tracer provider when an endpoint is
// configured and returns its shutdown func. Without an endpoint tracing stays
// on the global no-op provider.
func Setup(ctx context.Context, cfg *config.Config, serviceName string) func(context.Context) error {
	noop := func(context.Context) error { return nil }
	if cfg.OTELEndpoint == "" {
		return noop
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTELEndpoint)}
	if cfg.OTELInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		log.Warn().Err(err).Msg("otel: exporter disabled")
		return noop
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(serviceName),
		semconv.DeploymentEnvironment(cfg.Env),
	))
	if err != nil {
		log.Warn().Err(err).Msg("otel: resource attributes")
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	log.Info().Str("endpoint", cfg.OTELEndpoint).Msg("otel: tracing enabled")

	return provider.Shutdown
}
