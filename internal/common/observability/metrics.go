package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability exposes OpenTelemetry instruments for the selection
// pipeline, exported through the shared Prometheus registry.
type Observability struct {
	meterProvider     *metric.MeterProvider
	meter             otelmetric.Meter
	selectionCounter  otelmetric.Int64Counter
	selectionDuration otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	selectionCounter, _ := meter.Int64Counter(
		"selections.processed",
		otelmetric.WithDescription("Number of selection events processed"),
	)

	selectionDuration, _ := meter.Float64Histogram(
		"selections.duration",
		otelmetric.WithDescription("Selection event processing duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:     provider,
		meter:             meter,
		selectionCounter:  selectionCounter,
		selectionDuration: selectionDuration,
	}
}

// RecordSelectionProcessed counts one processed selection with its
// outcome (submitted, duplicate, skipped).
func (o *Observability) RecordSelectionProcessed(ctx context.Context, outcome string) {
	if o != nil && o.selectionCounter != nil {
		o.selectionCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("outcome", outcome),
		))
	}
}

func (o *Observability) RecordSelectionDuration(ctx context.Context, duration time.Duration, outcome string) {
	if o != nil && o.selectionDuration != nil {
		o.selectionDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("outcome", outcome),
		))
	}
}

func (o *Observability) Shutdown() {
	if o != nil && o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
