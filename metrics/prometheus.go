package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/davidroman0O/codika"
)

// Prometheus records invocations into Prometheus collectors.
type Prometheus struct {
	// Executions counts invocations by action, method and outcome
	Executions *prometheus.CounterVec
	// Duration observes invocation latency by action and method
	Duration *prometheus.HistogramVec
}

// NewPrometheus creates the collectors under namespace and registers them
// with reg. A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	return NewPrometheusWithLabels(reg, namespace, nil)
}

// NewPrometheusWithLabels is NewPrometheus with constLabels attached to
// every series, e.g. the name of the service running the actions.
func NewPrometheusWithLabels(reg prometheus.Registerer, namespace string, constLabels prometheus.Labels) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	p := &Prometheus{
		Executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Name:        "action_executions_total",
				Help:        "Total number of action invocations by outcome",
				ConstLabels: constLabels,
			},
			[]string{"action", "method", "outcome"}, // outcome: success, failure, error
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   namespace,
				Name:        "action_duration_seconds",
				Help:        "Duration of action invocations",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: constLabels,
			},
			[]string{"action", "method"},
		),
	}

	for _, c := range []prometheus.Collector{p.Executions, p.Duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Record implements Recorder.Record
func (p *Prometheus) Record(_ context.Context, inv codika.Invocation, outcome codika.Outcome, elapsed time.Duration) {
	p.Executions.WithLabelValues(inv.Action, inv.Method, string(outcome)).Inc()
	p.Duration.WithLabelValues(inv.Action, inv.Method).Observe(elapsed.Seconds())
}
