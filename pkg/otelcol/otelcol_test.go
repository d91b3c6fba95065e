package otelcol

import (
	"context"
	"testing"

	"worker-finder/pkg/config"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/fx/fxtest"
)

func TestNewTracerProviderWithoutCollector(t *testing.T) {
	cfg := &config.Config{AppName: "worker-finder", AppEnv: "test"}
	lc := fxtest.NewLifecycle(t)

	tp, err := NewTracerProvider(lc, cfg)
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	require.True(t, span.SpanContext().IsValid())
	span.End()

	lc.RequireStart().RequireStop()
}

func TestProvideTraceExportsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := ProvideTrace(exporter)

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.End()
	require.NoError(t, tp.ForceFlush(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Equal(t, "op", spans[0].Name)
}
