// Package config loads codika runtime settings from the environment and
// turns them into codika options.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/davidroman0O/codika"
	"github.com/davidroman0O/codika/messages"
	"github.com/davidroman0O/codika/metrics"
	"github.com/davidroman0O/codika/tracing"
)

// Config holds the environment-driven settings.
type Config struct {
	// Locale of contract violation messages, as a BCP 47 tag
	Locale string `env:"CODIKA_LOCALE" envDefault:"en"`
	// TracingEnabled adds the tracing middleware
	TracingEnabled bool `env:"CODIKA_TRACING_ENABLED" envDefault:"false"`
	// MetricsEnabled adds the Prometheus metrics middleware
	MetricsEnabled bool `env:"CODIKA_METRICS_ENABLED" envDefault:"false"`
	// MetricsNamespace prefixes Prometheus metric names
	MetricsNamespace string `env:"CODIKA_METRICS_NAMESPACE" envDefault:"codika"`
	// ServiceName is attached as the "service" label of Prometheus metrics
	ServiceName string `env:"CODIKA_SERVICE_NAME" envDefault:"codika"`
}

// Load parses the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(environment map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Dependencies are the collaborators Options wires in. Zero values fall
// back to the global OpenTelemetry provider and the default Prometheus
// registerer.
type Dependencies struct {
	Logger         codika.Logger
	TracerProvider trace.TracerProvider
	Registerer     prometheus.Registerer
}

// Options builds the codika options described by cfg. Tracing runs
// outside metrics so span durations include metric recording.
func (cfg Config) Options(deps Dependencies) ([]codika.Option, error) {
	locale, err := messages.ParseLocale(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", cfg.Locale, err)
	}

	opts := []codika.Option{codika.WithLocale(locale)}
	if deps.Logger != nil {
		opts = append(opts, codika.WithLogger(deps.Logger))
	}
	if cfg.TracingEnabled {
		opts = append(opts, codika.WithMiddleware(tracing.Middleware(deps.TracerProvider)))
	}
	if cfg.MetricsEnabled {
		var labels prometheus.Labels
		if cfg.ServiceName != "" {
			labels = prometheus.Labels{"service": cfg.ServiceName}
		}
		rec, err := metrics.NewPrometheusWithLabels(deps.Registerer, cfg.MetricsNamespace, labels)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		opts = append(opts, codika.WithMiddleware(metrics.Middleware(rec)))
	}
	return opts, nil
}
