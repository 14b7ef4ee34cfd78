package codika

import (
	"context"
	"fmt"
	"reflect"
)

// Base is embedded by service types to give their methods access to the
// context of the running invocation.
//
//	type Signup struct{ codika.Base }
//
//	func (s *Signup) Run() error {
//		return s.Context().Set("user_id", 42)
//	}
type Base struct {
	ctx *Context
}

// Context returns the context of the running invocation.
func (b *Base) Context() *Context {
	return b.ctx
}

func (b *Base) bind(c *Context) {
	b.ctx = c
}

// instance is satisfied by *T when T embeds Base.
type instance[T any] interface {
	*T
	bind(c *Context)
}

var (
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
)

// Service is an action whose body calls one named method on a fresh
// instance of T. Methods read and write the context through Base.Context.
type Service[T any, P instance[T]] struct {
	name     string
	contract Contract
	settings settings
}

// NewService defines a service named name over T.
//
//	signup := codika.NewService[Signup]("signup", codika.NewContract().Promises("user_id"))
func NewService[T any, P instance[T]](name string, contract Contract, opts ...Option) *Service[T, P] {
	if name == "" {
		panic("codika: service name cannot be empty")
	}
	return &Service[T, P]{
		name:     name,
		contract: contract,
		settings: newSettings(opts...),
	}
}

// Name implements Action.Name
func (s *Service[T, P]) Name() string {
	return s.name
}

// Contract implements Action.Contract
func (s *Service[T, P]) Contract() Contract {
	return s.contract
}

// Perform implements Action.Perform
func (s *Service[T, P]) Perform(ctx context.Context, method string, params Params) (*Context, error) {
	return s.Execute(ctx, method, params)
}

// Execute runs the lifecycle with a body that calls method on a new T.
// Supported method signatures are func(), func() error and
// func(context.Context) error. A missing method or another signature is
// reported by the body with an error wrapping ErrUnknownMethod, so params
// and required keys are checked first.
func (s *Service[T, P]) Execute(ctx context.Context, method string, params Params) (*Context, error) {
	inv := newInvocation(s.name, method, KindService, s.contract)
	return s.settings.run(ctx, inv, params, func(ctx context.Context, c *Context) error {
		inst := P(new(T))
		call, err := s.lookup(inst, method)
		if err != nil {
			return err
		}
		inst.bind(c)
		return call(ctx)
	})
}

// Methods lists the exported methods of *T that Execute can call.
func (s *Service[T, P]) Methods() []string {
	t := reflect.TypeOf(P(new(T)))
	var names []string
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if m.Name == "Context" {
			continue
		}
		if _, ok := adaptMethod(reflect.Value{}, m.Type, true); ok {
			names = append(names, m.Name)
		}
	}
	return names
}

func (s *Service[T, P]) lookup(inst P, method string) (func(context.Context) error, error) {
	if method == "" || method == "Context" {
		return nil, fmt.Errorf("%w: %s has no method %q", ErrUnknownMethod, s.name, method)
	}
	m := reflect.ValueOf(inst).MethodByName(method)
	if !m.IsValid() {
		return nil, fmt.Errorf("%w: %s has no method %q", ErrUnknownMethod, s.name, method)
	}
	call, ok := adaptMethod(m, m.Type(), false)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s has unsupported signature %v", ErrUnknownMethod, s.name, method, m.Type())
	}
	return call, nil
}

// adaptMethod turns a bound method value into a uniform call. When
// withReceiver is set, typ comes from a method set and its first input is
// the receiver, and only the signature is checked.
func adaptMethod(m reflect.Value, typ reflect.Type, withReceiver bool) (func(context.Context) error, bool) {
	offset := 0
	if withReceiver {
		offset = 1
	}
	in := typ.NumIn() - offset
	out := typ.NumOut()

	switch {
	case in == 0 && out == 0:
		return func(context.Context) error {
			m.Call(nil)
			return nil
		}, true
	case in == 0 && out == 1 && typ.Out(0) == errorType:
		return func(context.Context) error {
			return asError(m.Call(nil)[0])
		}, true
	case in == 1 && typ.In(offset) == contextType && out == 1 && typ.Out(0) == errorType:
		return func(ctx context.Context) error {
			return asError(m.Call([]reflect.Value{reflect.ValueOf(&ctx).Elem()})[0])
		}, true
	default:
		return nil, false
	}
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}
