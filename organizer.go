package codika

import (
	"context"
	"fmt"
)

// Step is one entry of an organizer pipeline: the action to run and the
// method to run it with.
type Step struct {
	Action Action
	Method string
}

// NewStep returns the step running method on action.
func NewStep(action Action, method string) Step {
	return Step{Action: action, Method: method}
}

// Organizer is an action whose body runs a fixed list of steps in order.
//
// Each step receives the domain keys of the previous step's output (the
// organizer's input for the first step) and its output is merged into the
// organizer's context. A step that fails its context does not stop the
// pipeline: every remaining step still runs, and the organizer keeps the
// error of the first failed step. Only an error returned by a step aborts
// the remaining steps.
type Organizer struct {
	name     string
	contract Contract
	steps    []Step
	settings settings
}

// NewOrganizer defines an organizer running steps in the given order. The
// step list is copied and cannot change afterwards. It panics if a step has
// no action.
func NewOrganizer(name string, contract Contract, steps []Step, opts ...Option) *Organizer {
	if name == "" {
		panic("codika: organizer name cannot be empty")
	}
	copied := make([]Step, len(steps))
	for i, step := range steps {
		if step.Action == nil {
			panic(fmt.Sprintf("codika: organizer %s step %d has no action", name, i))
		}
		copied[i] = step
	}
	return &Organizer{
		name:     name,
		contract: contract,
		steps:    copied,
		settings: newSettings(opts...),
	}
}

// Name implements Action.Name
func (o *Organizer) Name() string {
	return o.name
}

// Contract implements Action.Contract
func (o *Organizer) Contract() Contract {
	return o.contract
}

// Steps returns a copy of the pipeline definition.
func (o *Organizer) Steps() []Step {
	out := make([]Step, len(o.steps))
	copy(out, o.steps)
	return out
}

// Perform implements Action.Perform so organizers can be nested as steps.
// The method is ignored.
func (o *Organizer) Perform(ctx context.Context, _ string, params Params) (*Context, error) {
	return o.Execute(ctx, params)
}

// Execute runs the organizer lifecycle with params as the initial input.
func (o *Organizer) Execute(ctx context.Context, params Params) (*Context, error) {
	inv := newInvocation(o.name, "", KindOrganizer, o.contract)
	logger := newInvocationLogger(o.settings.logger, inv)
	return o.settings.run(ctx, inv, params, func(ctx context.Context, c *Context) error {
		return o.runSteps(ctx, c, logger)
	})
}

func (o *Organizer) runSteps(ctx context.Context, c *Context, logger Logger) error {
	if len(o.steps) == 0 {
		logger.Debug("No steps to execute")
		return nil
	}

	carry := c
	for i, step := range o.steps {
		logger.Debug("Executing step %d/%d: %s#%s", i+1, len(o.steps), step.Action.Name(), step.Method)

		out, err := step.Action.Perform(ctx, step.Method, carry.ToMap())
		if err != nil {
			logger.Error("Step %d/%d %s aborted the pipeline: %v", i+1, len(o.steps), step.Action.Name(), err)
			return err
		}

		if err := c.merge(out); err != nil {
			return err
		}

		if out.Failure() {
			if c.Success() {
				c.Fail(out.ErrorValue())
				logger.Warn("Step %d/%d %s failed: %v", i+1, len(o.steps), step.Action.Name(), out.ErrorValue())
			} else {
				logger.Debug("Step %d/%d %s failed after an earlier failure", i+1, len(o.steps), step.Action.Name())
			}
		}

		carry = out
	}
	return nil
}
