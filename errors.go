package codika

import (
	"errors"
	"strings"

	"golang.org/x/text/language"

	"github.com/davidroman0O/codika/messages"
)

var (
	// ErrActionable matches every *ActionableError with errors.Is.
	ErrActionable = errors.New("actionable contract violation")
	// ErrReservedKey matches every *ReservedKeyError with errors.Is.
	ErrReservedKey = errors.New("reserved context key")
	// ErrUnknownMethod is returned when a service has no usable method of the requested name.
	ErrUnknownMethod = errors.New("unknown service method")
)

// ActionableError reports declared keys missing from a context, either
// before the body ran (required) or after it succeeded (promised).
type ActionableError struct {
	// Action is the name of the action whose contract was violated
	Action string
	// Kind tells whether required or promised keys were missing
	Kind messages.Kind
	// Keys lists every missing key in declaration order
	Keys []string

	message string
}

func newActionableError(action string, kind messages.Kind, keys []string, locale language.Tag) *ActionableError {
	return &ActionableError{
		Action:  action,
		Kind:    kind,
		Keys:    keys,
		message: messages.Format(locale, kind, keys),
	}
}

// Error returns the localized message, e.g. "Missing required keys: a, b".
func (e *ActionableError) Error() string {
	return e.message
}

// Is makes errors.Is(err, ErrActionable) true.
func (e *ActionableError) Is(target error) bool {
	return target == ErrActionable
}

// ReservedKeyError reports an attempt to seed or write a reserved context field.
type ReservedKeyError struct {
	// Keys lists the reserved keys that were supplied
	Keys []string
}

// Error returns the offending keys joined by ", ".
func (e *ReservedKeyError) Error() string {
	return strings.Join(e.Keys, ", ")
}

// Is makes errors.Is(err, ErrReservedKey) true.
func (e *ReservedKeyError) Is(target error) bool {
	return target == ErrReservedKey
}
