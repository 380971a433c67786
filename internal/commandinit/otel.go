package commandinit

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"runtime/debug"

	"github.com/artuross/nifi2go/internal/defaults"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName      = "nifi2go"
	serviceNamespace = "nifi"

	// AttributeCommand names the CLI command that produced the spans.
	AttributeCommand = attribute.Key("nifi2go.command")
)

type ShutdownFunc func(ctx context.Context) error

func noopShutdown(_ context.Context) error {
	return nil
}

// Telemetry describes the command run a tracer provider reports for.
type Telemetry struct {
	Command string
	NiFiURL string
}

// NewOpenTelemetry exports spans over OTLP when OTEL_EXPORTER_OTLP_ENDPOINT is
// set. Without it spans are dropped.
func NewOpenTelemetry(ctx context.Context, telemetry Telemetry) (trace.TracerProvider, ShutdownFunc, error) {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return defaults.TracerProvider, noopShutdown, nil
	}

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithCompressor("gzip"))
	if err != nil {
		return nil, noopShutdown, fmt.Errorf("create OTEL exporter: %w", err)
	}

	resource, err := NewResource(ctx, telemetry)
	if err != nil {
		return nil, noopShutdown, fmt.Errorf("create OTEL resource: %w", err)
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(
			exporter,
			sdktrace.WithMaxQueueSize(2048),
			sdktrace.WithMaxExportBatchSize(512),
		),
		sdktrace.WithResource(resource),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)

	return tracerProvider, tracerProvider.Shutdown, nil
}

// NewResource describes the running binary, the command and the NiFi
// instance it talks to. OTEL_SERVICE_NAME and OTEL_RESOURCE_ATTRIBUTES
// override the defaults.
func NewResource(ctx context.Context, telemetry Telemetry) (*sdkresource.Resource, error) {
	attributes := []attribute.KeyValue{
		semconv.ServiceName(serviceName),
		semconv.ServiceNamespace(serviceNamespace),
		semconv.ServiceVersion(serviceVersion()),
	}

	if telemetry.Command != "" {
		attributes = append(attributes, AttributeCommand.String(telemetry.Command))
	}

	if u, err := url.Parse(telemetry.NiFiURL); err == nil && u.Hostname() != "" {
		attributes = append(attributes, semconv.ServerAddress(u.Hostname()))
	}

	return sdkresource.New(
		ctx,
		sdkresource.WithTelemetrySDK(),
		sdkresource.WithProcessRuntimeName(),
		sdkresource.WithProcessRuntimeVersion(),
		sdkresource.WithAttributes(attributes...),
		sdkresource.WithFromEnv(),
	)
}

func serviceVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "(devel)"
	}

	return info.Main.Version
}
