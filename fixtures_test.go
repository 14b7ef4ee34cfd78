package codika

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// TestLogger is a simple logger implementation for testing
type TestLogger struct {
	t *testing.T
}

func (l *TestLogger) Debug(format string, args ...interface{}) {
	l.t.Logf("[DEBUG] "+format, args...)
}

func (l *TestLogger) Info(format string, args ...interface{}) {
	l.t.Logf("[INFO] "+format, args...)
}

func (l *TestLogger) Warn(format string, args ...interface{}) {
	l.t.Logf("[WARN] "+format, args...)
}

func (l *TestLogger) Error(format string, args ...interface{}) {
	l.t.Logf("[ERROR] "+format, args...)
}

// recordingLogger keeps every formatted line by level
type recordingLogger struct {
	mu    sync.Mutex
	lines map[string][]string
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{lines: map[string][]string{}}
}

func (l *recordingLogger) add(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines[level] = append(l.lines[level], fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Debug(format string, args ...interface{}) { l.add("debug", format, args...) }
func (l *recordingLogger) Info(format string, args ...interface{})  { l.add("info", format, args...) }
func (l *recordingLogger) Warn(format string, args ...interface{})  { l.add("warn", format, args...) }
func (l *recordingLogger) Error(format string, args ...interface{}) { l.add("error", format, args...) }

func (l *recordingLogger) contains(level, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines[level] {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

var errUnexpected = errors.New("unexpected_runtime_error_in_action")

// appendHistory records a marker in the "history" key
func appendHistory(c *Context, marker string) error {
	history, err := ValueOr[[]string](c, "history", nil)
	if err != nil {
		return err
	}
	return c.Set("history", append(history, marker))
}

// stepOne turns initial_data into action_one_output
type stepOne struct{ Base }

func (s *stepOne) Run() error {
	data, err := Value[string](s.Context(), "initial_data")
	if err != nil {
		return err
	}
	if err := s.Context().Set("action_one_output", "output_from_one_using_"+data); err != nil {
		return err
	}
	return appendHistory(s.Context(), "action_one_ran")
}

// stepTwo turns action_one_output into action_two_output
type stepTwo struct{ Base }

func (s *stepTwo) Run() error {
	data, err := Value[string](s.Context(), "action_one_output")
	if err != nil {
		return err
	}
	if err := s.Context().Set("action_two_output", "output_from_two_using_"+data); err != nil {
		return err
	}
	return appendHistory(s.Context(), "action_two_ran")
}

// failingStep marks its context failed
type failingStep struct{ Base }

func (s *failingStep) Run() error {
	if err := s.Context().Set("attempted_failing_action", true); err != nil {
		return err
	}
	if err := appendHistory(s.Context(), "failing_action_ran"); err != nil {
		return err
	}
	s.Context().Fail("custom_failing_action_error")
	return nil
}

// secondFailingStep fails with a different payload
type secondFailingStep struct{ Base }

func (s *secondFailingStep) Run() error {
	s.Context().Fail("second_failure")
	return appendHistory(s.Context(), "second_failing_action_ran")
}

// erroringStep returns an unexpected error
type erroringStep struct{ Base }

func (s *erroringStep) Run() error {
	if err := appendHistory(s.Context(), "erroring_action_ran"); err != nil {
		return err
	}
	return errUnexpected
}

var (
	actionOne = NewService[stepOne]("action_one",
		NewContract().Requires("initial_data").Promises("action_one_output"))
	actionTwo = NewService[stepTwo]("action_two",
		NewContract().Requires("action_one_output").Promises("action_two_output"))
	failingAction = NewService[failingStep]("failing_action",
		NewContract().Promises("attempted_failing_action"))
	secondFailingAction = NewService[secondFailingStep]("second_failing_action", NewContract())
	erroringAction      = NewService[erroringStep]("erroring_action", NewContract())
)
