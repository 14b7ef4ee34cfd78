package codika

import (
	"context"

	"github.com/google/uuid"

	"github.com/davidroman0O/codika/messages"
)

// Execute runs the action lifecycle for an ad-hoc action:
//
//  1. build a Context from params (a *ReservedKeyError is returned as is)
//  2. fail with *ActionableError if any required key is missing
//  3. run body, returning its error unchanged
//  4. unless the context was failed, fail with *ActionableError if any
//     promised key is missing
//
// A context marked failed by the body is a normal return value, not an error.
// A nil body is allowed.
func Execute(ctx context.Context, name string, contract Contract, params Params, body Body, opts ...Option) (*Context, error) {
	s := newSettings(opts...)
	inv := newInvocation(name, "", KindAction, contract)
	return s.run(ctx, inv, params, body)
}

func newInvocation(name, method string, kind Kind, contract Contract) Invocation {
	return Invocation{
		ID:       uuid.NewString(),
		Action:   name,
		Method:   method,
		Kind:     kind,
		Contract: contract,
	}
}

// run passes the invocation through the middleware chain down to the
// lifecycle itself.
func (s settings) run(ctx context.Context, inv Invocation, params Params, body Body) (*Context, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	handler := s.chain(func(ctx context.Context, inv Invocation, params Params) (*Context, error) {
		return s.lifecycle(ctx, inv, params, body)
	})
	return handler(ctx, inv, params)
}

func (s settings) lifecycle(ctx context.Context, inv Invocation, params Params, body Body) (*Context, error) {
	logger := newInvocationLogger(s.logger, inv)
	logger.Debug("Starting %s with %d params", inv.Kind, len(params))

	c, err := NewContext(params)
	if err != nil {
		logger.Error("Rejected params: %v", err)
		return nil, err
	}

	if missing := inv.Contract.MissingRequired(c); len(missing) > 0 {
		err := newActionableError(inv.Action, messages.MissingRequired, missing, s.locale)
		logger.Error("Contract violation: %v", err)
		return nil, err
	}

	if body != nil {
		if err := body(ctx, c); err != nil {
			logger.Error("Body returned error: %v", err)
			return nil, err
		}
	}

	if c.Failure() {
		logger.Warn("Finished with failure: %v", c.ErrorValue())
		return c, nil
	}

	if missing := inv.Contract.MissingPromised(c); len(missing) > 0 {
		err := newActionableError(inv.Action, messages.MissingPromised, missing, s.locale)
		logger.Error("Contract violation: %v", err)
		return nil, err
	}

	logger.Debug("Finished successfully with %d keys", c.Len())
	return c, nil
}
