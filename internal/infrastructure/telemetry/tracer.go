// Package telemetry wires tracing, log export, profiling and metrics for the service.
package telemetry

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"github.com/pokedex/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// ServiceVersion is reported on every exported resource. cmd/server sets it
// from its build version before creating any provider.
var ServiceVersion = "dev"

const traceShutdownTimeout = 10 * time.Second

// TracerProvider owns the OTLP trace pipeline. When telemetry is disabled
// the global no-op provider stays in place and every method is a no-op.
type TracerProvider struct {
	provider     *sdktrace.TracerProvider
	serviceName  string
	logger       *zap.Logger
	spanProfiles atomic.Bool
}

// NewTracerProvider exports spans over OTLP/gRPC and installs the provider
// and W3C propagators globally, so otelgin, otelgorm and otelhttp all pick
// them up without further wiring.
func NewTracerProvider(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*TracerProvider, error) {
	tp := &TracerProvider{serviceName: cfg.ServiceName, logger: logger}
	if !cfg.Enabled {
		logger.Info("Tracing disabled")
		return tp, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}
	tp.provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(cfg.SamplingRatio)),
	)

	otel.SetTracerProvider(tp.provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("Tracing enabled",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Float64("sampling_ratio", cfg.SamplingRatio),
		zap.String("service_name", cfg.ServiceName),
		zap.String("service_version", ServiceVersion),
	)
	return tp, nil
}

func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(ServiceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

// newSampler honours the caller's decision and samples new traces at ratio
func newSampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	case ratio <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

// IsEnabled reports whether spans are exported
func (tp *TracerProvider) IsEnabled() bool {
	return tp.provider != nil
}

// EnableSpanProfiles links CPU profiles to spans by wrapping the global
// provider with the pyroscope span processor. Calling it again, or with
// tracing disabled, does nothing.
func (tp *TracerProvider) EnableSpanProfiles() error {
	if tp.provider == nil {
		tp.logger.Debug("Span profiles skipped: tracing disabled")
		return nil
	}
	if !tp.spanProfiles.CompareAndSwap(false, true) {
		return nil
	}
	otel.SetTracerProvider(otelpyroscope.NewTracerProvider(tp.provider))
	tp.logger.Info("Span profiles enabled", zap.String("service_name", tp.serviceName))
	return nil
}

// IsSpanProfilesEnabled reports whether EnableSpanProfiles took effect
func (tp *TracerProvider) IsSpanProfilesEnabled() bool {
	return tp.spanProfiles.Load()
}

// Shutdown exports buffered spans, waiting at most ten seconds
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.provider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, traceShutdownTimeout)
	defer cancel()
	if err := tp.provider.Shutdown(ctx); err != nil {
		tp.logger.Error("Error shutting down tracer provider", zap.Error(err))
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}
	return nil
}
