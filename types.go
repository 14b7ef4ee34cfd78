package codika

import "context"

// Params is the plain key/value input an action context is built from.
type Params map[string]any

// Kind tells which flavor of action an invocation belongs to.
type Kind string

const (
	// KindAction is an ad-hoc lifecycle run through Execute.
	KindAction Kind = "action"
	// KindService is a Service method invocation.
	KindService Kind = "service"
	// KindOrganizer is an Organizer run.
	KindOrganizer Kind = "organizer"
)

// Outcome classifies how an invocation ended.
type Outcome string

const (
	// OutcomeSuccess means the context was returned without business failure.
	OutcomeSuccess Outcome = "success"
	// OutcomeFailure means the context was returned marked as failed.
	OutcomeFailure Outcome = "failure"
	// OutcomeError means a contract violation or body error was returned.
	OutcomeError Outcome = "error"
)

// OutcomeOf derives the outcome of an invocation from its results.
func OutcomeOf(c *Context, err error) Outcome {
	switch {
	case err != nil || c == nil:
		return OutcomeError
	case c.Failure():
		return OutcomeFailure
	default:
		return OutcomeSuccess
	}
}

// Invocation describes a single run of the action lifecycle.
type Invocation struct {
	// ID uniquely identifies this run
	ID string
	// Action is the name of the action being run
	Action string
	// Method is the service method or organizer entry point, if any
	Method string
	// Kind is the flavor of action
	Kind Kind
	// Contract is the contract validated around the body
	Contract Contract
}

// Body is the unit of work run between required and promised key validation.
// It mutates the context in place and may mark it failed with Fail.
type Body func(ctx context.Context, c *Context) error

// RunnerFunc is the core function type for executing an action lifecycle.
type RunnerFunc func(ctx context.Context, inv Invocation, params Params) (*Context, error)

// Middleware wraps lifecycle execution. It can observe the invocation before
// and after it runs, but must return the context and error it received
// unchanged for the contract semantics to hold.
type Middleware func(next RunnerFunc) RunnerFunc

// Action is anything that can be placed in an organizer step.
type Action interface {
	// Name returns the action's name
	Name() string

	// Contract returns the keys the action requires and promises
	Contract() Contract

	// Perform runs the action lifecycle. Method selects the entry point for
	// actions that have several; organizers ignore it.
	Perform(ctx context.Context, method string, params Params) (*Context, error)
}
