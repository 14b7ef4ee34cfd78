package codika

import (
	"golang.org/x/text/language"

	"github.com/davidroman0O/codika/messages"
)

// settings holds what every action flavor needs to run its lifecycle.
type settings struct {
	logger     Logger
	middleware []Middleware
	locale     language.Tag
}

// Option configures a Service, an Organizer or an ad-hoc Execute call.
type Option func(*settings)

// WithLogger sets the logger used by the lifecycle
func WithLogger(logger Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMiddleware adds middleware to the lifecycle chain.
// Middleware runs in the order it is added, the first one outermost.
func WithMiddleware(middleware ...Middleware) Option {
	return func(s *settings) {
		s.middleware = append(s.middleware, middleware...)
	}
}

// WithLocale sets the locale of contract violation messages
func WithLocale(tag language.Tag) Option {
	return func(s *settings) {
		s.locale = tag
	}
}

// WithOptions applies a group of options as one.
func WithOptions(opts ...Option) Option {
	return func(s *settings) {
		for _, opt := range opts {
			opt(s)
		}
	}
}

func newSettings(opts ...Option) settings {
	s := settings{
		logger:     NewDefaultLogger(),
		middleware: []Middleware{},
		locale:     messages.DefaultLocale,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// chain wraps handler with the configured middleware, applied in reverse
// order so the first registered middleware runs first.
func (s settings) chain(handler RunnerFunc) RunnerFunc {
	for i := len(s.middleware) - 1; i >= 0; i-- {
		handler = s.middleware[i](handler)
	}
	return handler
}
