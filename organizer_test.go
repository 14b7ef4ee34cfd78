package codika

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrganizer(t *testing.T, steps ...Step) *Organizer {
	return NewOrganizer("test_organizer", NewContract(), steps, WithLogger(&TestLogger{t: t}))
}

func history(t *testing.T, c *Context) []string {
	h, err := ValueOr[[]string](c, "history", nil)
	require.NoError(t, err)
	return h
}

func TestOrganizerAllStepsSucceed(t *testing.T) {
	organizer := newTestOrganizer(t,
		NewStep(actionOne, "Run"),
		NewStep(actionTwo, "Run"),
	)
	params := Params{"initial_data": "start_data"}

	result, err := organizer.Execute(context.Background(), params)
	require.NoError(t, err)

	t.Run("executes all actions in the defined order", func(t *testing.T) {
		assert.Equal(t, []string{"action_one_ran", "action_two_ran"}, history(t, result))
	})

	t.Run("passes the context from one action to the next", func(t *testing.T) {
		out, err := Value[string](result, "action_two_output")
		require.NoError(t, err)
		assert.Equal(t, "output_from_two_using_output_from_one_using_start_data", out)
	})

	t.Run("passes initial params to the first action", func(t *testing.T) {
		out, err := Value[string](result, "action_one_output")
		require.NoError(t, err)
		assert.Contains(t, out, "start_data")
	})

	t.Run("marks the final context as successful", func(t *testing.T) {
		assert.True(t, result.Success())
		assert.Nil(t, result.ErrorValue())
	})

	t.Run("keeps first-write key order", func(t *testing.T) {
		assert.Equal(t, []string{"initial_data", "action_one_output", "history", "action_two_output"}, result.Keys())
	})
}

func TestOrganizerBusinessFailure(t *testing.T) {
	organizer := newTestOrganizer(t,
		NewStep(actionOne, "Run"),
		NewStep(failingAction, "Run"),
		NewStep(actionTwo, "Run"),
	)

	result, err := organizer.Execute(context.Background(), Params{"initial_data": "start_data"})
	require.NoError(t, err)
	require.NotNil(t, result)

	t.Run("attempts to execute actions after the failing one", func(t *testing.T) {
		assert.Equal(t, []string{"action_one_ran", "failing_action_ran", "action_two_ran"}, history(t, result))
	})

	t.Run("includes the error from the failing action", func(t *testing.T) {
		assert.Equal(t, "custom_failing_action_error", result.ErrorValue())
	})

	t.Run("contains results from every step", func(t *testing.T) {
		assert.True(t, result.Has("action_one_output"))

		attempted, err := Value[bool](result, "attempted_failing_action")
		require.NoError(t, err)
		assert.True(t, attempted)

		out, err := Value[string](result, "action_two_output")
		require.NoError(t, err)
		assert.NotEmpty(t, out)
	})

	t.Run("marks the final context as failed", func(t *testing.T) {
		assert.True(t, result.Failure())
	})
}

func TestOrganizerFirstFailureWins(t *testing.T) {
	organizer := newTestOrganizer(t,
		NewStep(failingAction, "Run"),
		NewStep(secondFailingAction, "Run"),
	)

	result, err := organizer.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, result.Failure())
	assert.Equal(t, "custom_failing_action_error", result.ErrorValue())
	assert.Equal(t, []string{"failing_action_ran", "second_failing_action_ran"}, history(t, result))
}

func TestOrganizerUnexpectedError(t *testing.T) {
	logger := newRecordingLogger()
	organizer := NewOrganizer("test_organizer", NewContract(), []Step{
		NewStep(actionOne, "Run"),
		NewStep(erroringAction, "Run"),
		NewStep(actionTwo, "Run"),
	}, WithLogger(logger))

	result, err := organizer.Execute(context.Background(), Params{"initial_data": "start_data"})
	assert.Nil(t, result)
	assert.Same(t, errUnexpected, err)
	assert.EqualError(t, err, "unexpected_runtime_error_in_action")
	assert.True(t, logger.contains("error", "aborted the pipeline"))
	assert.False(t, logger.contains("debug", "Executing step 3/3"))
}

func TestOrganizerEmptySteps(t *testing.T) {
	organizer := newTestOrganizer(t)
	params := Params{"initial_data": "start_data", "other": 2}

	result, err := organizer.Execute(context.Background(), params)
	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Equal(t, params, result.ToMap())

	t.Run("keys differing only by whitespace stay distinct", func(t *testing.T) {
		padded := Params{"a": 1, " a": 2, "b ": 3}
		result, err := organizer.Execute(context.Background(), padded)
		require.NoError(t, err)
		assert.Equal(t, padded, result.ToMap())
	})
}

func TestOrganizerStepContractViolation(t *testing.T) {
	// actionTwo requires action_one_output, which nobody produced
	organizer := newTestOrganizer(t, NewStep(actionTwo, "Run"))

	_, err := organizer.Execute(context.Background(), Params{"initial_data": "x"})
	assert.ErrorIs(t, err, ErrActionable)
	assert.EqualError(t, err, "Missing required keys: action_one_output")
}

func TestOrganizerOwnContract(t *testing.T) {
	steps := []Step{NewStep(actionOne, "Run"), NewStep(actionTwo, "Run")}

	t.Run("required keys are checked before any step", func(t *testing.T) {
		organizer := NewOrganizer("strict", NewContract().Requires("initial_data"), steps)
		_, err := organizer.Execute(context.Background(), Params{})
		assert.EqualError(t, err, "Missing required keys: initial_data")
	})

	t.Run("promised keys are checked after the steps", func(t *testing.T) {
		organizer := NewOrganizer("strict", NewContract().Promises("action_two_output", "summary"), steps)
		_, err := organizer.Execute(context.Background(), Params{"initial_data": "x"})
		assert.EqualError(t, err, "Missing promised keys: summary")
	})

	t.Run("promise check is skipped when a step failed", func(t *testing.T) {
		organizer := NewOrganizer("strict", NewContract().Promises("summary"),
			[]Step{NewStep(failingAction, "Run")})
		result, err := organizer.Execute(context.Background(), nil)
		require.NoError(t, err)
		assert.True(t, result.Failure())
	})
}

func TestOrganizerReservedParams(t *testing.T) {
	organizer := newTestOrganizer(t, NewStep(actionOne, "Run"))
	_, err := organizer.Execute(context.Background(), Params{"initial_data": "x", "success": true})
	assert.ErrorIs(t, err, ErrReservedKey)
}

func TestOrganizerStepsDoNotSeeReservedFields(t *testing.T) {
	var received []Params
	capture := &captureAction{name: "capture", received: &received}

	organizer := newTestOrganizer(t,
		NewStep(failingAction, "Run"),
		NewStep(capture, ""),
	)
	result, err := organizer.Execute(context.Background(), Params{"a": 1})
	require.NoError(t, err)
	assert.True(t, result.Failure())

	require.Len(t, received, 1)
	assert.NotContains(t, received[0], "success")
	assert.NotContains(t, received[0], "error")
	assert.Equal(t, 1, received[0]["a"])
	assert.Equal(t, true, received[0]["attempted_failing_action"])
}

func TestOrganizerNested(t *testing.T) {
	inner := NewOrganizer("inner", NewContract().Promises("action_two_output"), []Step{
		NewStep(actionOne, "Run"),
		NewStep(actionTwo, "Run"),
	})
	outer := NewOrganizer("outer", NewContract(), []Step{
		NewStep(inner, ""),
		NewStep(failingAction, "Run"),
	})

	result, err := outer.Execute(context.Background(), Params{"initial_data": "nested"})
	require.NoError(t, err)
	assert.Equal(t, []string{"action_one_ran", "action_two_ran", "failing_action_ran"}, history(t, result))
	assert.True(t, result.Failure())

	out, err := Value[string](result, "action_two_output")
	require.NoError(t, err)
	assert.Equal(t, "output_from_two_using_output_from_one_using_nested", out)
}

func TestOrganizerStepsAreFixed(t *testing.T) {
	steps := []Step{NewStep(actionOne, "Run")}
	organizer := NewOrganizer("fixed", NewContract(), steps)

	steps[0] = NewStep(erroringAction, "Run")
	got := organizer.Steps()
	assert.Equal(t, "action_one", got[0].Action.Name())

	got[0] = NewStep(erroringAction, "Run")
	assert.Equal(t, "action_one", organizer.Steps()[0].Action.Name())
}

func TestOrganizerPanicsOnInvalidDefinition(t *testing.T) {
	assert.Panics(t, func() { NewOrganizer("", NewContract(), nil) })
	assert.Panics(t, func() { NewOrganizer("broken", NewContract(), []Step{{Method: "Run"}}) })
}

func TestOrganizerMiddlewareKind(t *testing.T) {
	var kinds []Kind
	mw := func(next RunnerFunc) RunnerFunc {
		return func(ctx context.Context, inv Invocation, params Params) (*Context, error) {
			kinds = append(kinds, inv.Kind)
			return next(ctx, inv, params)
		}
	}
	organizer := NewOrganizer("observed", NewContract(), nil, WithMiddleware(mw))

	_, err := organizer.Perform(context.Background(), "ignored", nil)
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindOrganizer}, kinds)
}

// captureAction records the params it receives
type captureAction struct {
	name     string
	received *[]Params
}

func (a *captureAction) Name() string       { return a.name }
func (a *captureAction) Contract() Contract { return NewContract() }

func (a *captureAction) Perform(ctx context.Context, method string, params Params) (*Context, error) {
	*a.received = append(*a.received, params)
	return Execute(ctx, a.name, a.Contract(), params, nil)
}
