package config

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"gotest.tools/v3/assert"
)

func TestSetupTelemetryStdout(t *testing.T) {
	prev := otel.GetMeterProvider()
	defer otel.SetMeterProvider(prev)
	TelemetryEndpoint = StdoutEndpoint
	defer func() { TelemetryEndpoint = "" }()

	tel, err := SetupTelemetry(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, otel.GetMeterProvider(), tel.provider)
	tel.Shutdown()
}
