package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/davidroman0O/codika"
)

// InstrumentationName identifies the meter created by NewOTelFromProvider.
const InstrumentationName = "github.com/davidroman0O/codika/metrics"

// OTel records invocations with OpenTelemetry instruments.
type OTel struct {
	executions metric.Int64Counter
	duration   metric.Float64Histogram
}

// NewOTel creates the instruments on meter.
func NewOTel(meter metric.Meter) (*OTel, error) {
	executions, err := meter.Int64Counter("codika.action.executions",
		metric.WithDescription("Number of action invocations by outcome"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram("codika.action.duration",
		metric.WithDescription("Duration of action invocations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &OTel{executions: executions, duration: duration}, nil
}

// NewOTelFromProvider creates the instruments on a meter from mp. A nil mp
// uses the global provider.
func NewOTelFromProvider(mp metric.MeterProvider) (*OTel, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	return NewOTel(mp.Meter(InstrumentationName))
}

// Record implements Recorder.Record
func (o *OTel) Record(ctx context.Context, inv codika.Invocation, outcome codika.Outcome, elapsed time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("codika.action", inv.Action),
		attribute.String("codika.method", inv.Method),
		attribute.String("codika.kind", string(inv.Kind)),
	}
	o.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attrs...))
	o.executions.Add(ctx, 1, metric.WithAttributes(append(attrs, attribute.String("codika.outcome", string(outcome)))...))
}
