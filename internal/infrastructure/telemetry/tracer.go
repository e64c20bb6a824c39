package telemetry

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// TracerProvider is set by InitTracer and handed to otelhttp by the router.
var TracerProvider *sdktrace.TracerProvider

// Resource describes the process that emits spans.
type Resource struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
}

// exporterEndpoint turns an OTLP URL into the host:port form otlptracehttp
// expects, and reports whether the scheme asked for TLS.
func exporterEndpoint(endpoint string) (hostPort string, secure bool) {
	endpoint = strings.TrimSpace(endpoint)
	secure = strings.HasPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimSuffix(endpoint, "/")
	endpoint = strings.TrimSuffix(endpoint, "/v1/traces")
	return endpoint, secure
}

// InitTracer installs a batching OTLP/HTTP tracer provider and the W3C
// propagators used for HTTP and Kafka headers. The returned func flushes and
// stops the provider.
func InitTracer(ctx context.Context, otelEndpoint string, res Resource) (func(context.Context) error, error) {
	hostPort, secure := exporterEndpoint(otelEndpoint)

	exporterOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(hostPort)}
	if !secure {
		exporterOpts = append(exporterOpts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, exporterOpts...)
	if err != nil {
		return nil, err
	}

	otelRes, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(res.ServiceName),
			semconv.ServiceVersion(res.ServiceVersion),
			semconv.DeploymentEnvironment(res.Environment),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(otelRes),
	)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	TracerProvider = tp
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
