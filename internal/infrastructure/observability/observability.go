package observability

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"

	"talentbridge/marketplace-api/internal/config"
)

// Shutdown is a function that releases telemetry resources.
type Shutdown func(ctx context.Context) error

// Root spans of health and metrics endpoints are dropped.
var healthCheckSpans = map[string]struct{}{
	"GET /healthz":     {},
	"GET /readyz":      {},
	"GET /health/auth": {},
	"GET /metrics":     {},
}

// Setup configures OpenTelemetry tracing if enabled.
func Setup(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Shutdown, error) {
	if !cfg.EnableTracing || cfg.OTLPEndpoint == "" {
		log.Info().Msg("Tracing disabled")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(NewSampler(cfg.TraceSampleRatio)),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info().
		Str("endpoint", cfg.OTLPEndpoint).
		Float64("sample_ratio", cfg.TraceSampleRatio).
		Msg("Tracing enabled")

	return func(ctx context.Context) error {
		return tp.Shutdown(ctx)
	}, nil
}

// NewSampler follows the parent decision, drops health check roots and samples new
// root traces at ratio.
func NewSampler(ratio float64) sdktrace.Sampler {
	return sdktrace.ParentBased(healthCheckFilter{next: sdktrace.TraceIDRatioBased(ratio)})
}

type healthCheckFilter struct {
	next sdktrace.Sampler
}

func (f healthCheckFilter) ShouldSample(p sdktrace.SamplingParameters) sdktrace.SamplingResult {
	if _, ok := healthCheckSpans[p.Name]; ok {
		return sdktrace.SamplingResult{
			Decision:   sdktrace.Drop,
			Tracestate: trace.SpanContextFromContext(p.ParentContext).TraceState(),
		}
	}
	return f.next.ShouldSample(p)
}

func (f healthCheckFilter) Description() string {
	return fmt.Sprintf("HealthCheckFilter{%s}", f.next.Description())
}
