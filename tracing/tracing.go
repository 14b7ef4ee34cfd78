// Package tracing records an OpenTelemetry span for every codika action
// invocation. It is kept out of the core package so applications that do
// not trace never link it.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/davidroman0O/codika"
)

// InstrumentationName identifies the tracer created by this package.
const InstrumentationName = "github.com/davidroman0O/codika/tracing"

// Attribute keys set on every span.
const (
	AttrAction       = attribute.Key("codika.action")
	AttrMethod       = attribute.Key("codika.method")
	AttrKind         = attribute.Key("codika.kind")
	AttrInvocationID = attribute.Key("codika.invocation_id")
	AttrOutcome      = attribute.Key("codika.outcome")
	AttrFailure      = attribute.Key("codika.failure")
)

// EventBusinessFailure is the span event added when the context comes back failed.
const EventBusinessFailure = "codika.business_failure"

// Middleware returns a codika.Middleware that wraps each invocation in a
// span. A nil provider uses the global one. Steps run by an organizer
// become child spans of the organizer span.
func Middleware(tp trace.TracerProvider) codika.Middleware {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(InstrumentationName)

	return func(next codika.RunnerFunc) codika.RunnerFunc {
		return func(ctx context.Context, inv codika.Invocation, params codika.Params) (*codika.Context, error) {
			ctx, span := tracer.Start(ctx, SpanName(inv),
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(
					AttrAction.String(inv.Action),
					AttrMethod.String(inv.Method),
					AttrKind.String(string(inv.Kind)),
					AttrInvocationID.String(inv.ID),
				),
			)
			defer span.End()

			c, err := next(ctx, inv, params)

			outcome := codika.OutcomeOf(c, err)
			span.SetAttributes(AttrOutcome.String(string(outcome)))
			switch outcome {
			case codika.OutcomeError:
				if err == nil {
					span.SetStatus(codes.Error, "no context returned")
					break
				}
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			case codika.OutcomeFailure:
				span.AddEvent(EventBusinessFailure, trace.WithAttributes(
					AttrFailure.String(fmt.Sprint(c.ErrorValue())),
				))
			default:
				span.SetStatus(codes.Ok, "")
			}
			return c, err
		}
	}
}

// SpanName returns the span name of an invocation: the action name,
// followed by "#method" when a method is set.
func SpanName(inv codika.Invocation) string {
	if inv.Method == "" {
		return inv.Action
	}
	return inv.Action + "#" + inv.Method
}
