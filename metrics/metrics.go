// Package metrics counts and times codika action invocations.
//
// A Recorder receives one observation per invocation. Two recorders are
// provided, one backed by Prometheus collectors and one by OpenTelemetry
// instruments; Middleware plugs either into a service or organizer.
package metrics

import (
	"context"
	"time"

	"github.com/davidroman0O/codika"
)

// Recorder observes finished invocations.
type Recorder interface {
	Record(ctx context.Context, inv codika.Invocation, outcome codika.Outcome, elapsed time.Duration)
}

// Middleware returns a codika.Middleware reporting every invocation to rec.
func Middleware(rec Recorder) codika.Middleware {
	return func(next codika.RunnerFunc) codika.RunnerFunc {
		return func(ctx context.Context, inv codika.Invocation, params codika.Params) (*codika.Context, error) {
			start := time.Now()
			c, err := next(ctx, inv, params)
			rec.Record(ctx, inv, codika.OutcomeOf(c, err), time.Since(start))
			return c, err
		}
	}
}

// Multi fans observations out to several recorders.
type Multi []Recorder

// Record implements Recorder.Record
func (m Multi) Record(ctx context.Context, inv codika.Invocation, outcome codika.Outcome, elapsed time.Duration) {
	for _, rec := range m {
		rec.Record(ctx, inv, outcome, elapsed)
	}
}
