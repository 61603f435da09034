package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/mpapenbr/racereplay/log"
	"github.com/mpapenbr/racereplay/version"
)

const StdoutEndpoint = "stdout"

type Telemetry struct {
	ctx      context.Context
	provider *metric.MeterProvider
}

// SetupTelemetry installs a global meter provider exporting to
// TelemetryEndpoint.
func SetupTelemetry(ctx context.Context) (*Telemetry, error) {
	exporter, err := newExporter(ctx)
	if err != nil {
		return nil, err
	}
	res, err := resource.Merge(resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName("racereplay"),
			semconv.ServiceVersion(version.Version)))
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	provider := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(exporter,
			metric.WithInterval(15*time.Second))),
	)
	otel.SetMeterProvider(provider)
	return &Telemetry{ctx: ctx, provider: provider}, nil
}

func newExporter(ctx context.Context) (metric.Exporter, error) {
	if TelemetryEndpoint == StdoutEndpoint {
		return stdoutmetric.New(stdoutmetric.WithWriter(os.Stdout))
	}
	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(TelemetryEndpoint),
		otlpmetricgrpc.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}
	return exporter, nil
}

func (t *Telemetry) Shutdown() {
	ctx, cancel := context.WithTimeout(t.ctx, 5*time.Second)
	defer cancel()
	err := errors.Join(t.provider.ForceFlush(ctx), t.provider.Shutdown(ctx))
	if err != nil {
		log.Warn("telemetry shutdown", log.ErrorField(err))
	}
}
