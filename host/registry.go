package host

import (
	"fmt"
	"reflect"

	"go.uber.org/multierr"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// ── Registry ─────────────────────────────────────────────────────────────────

// Registry collects service registrations before a Host is built. It is
// the explicit form of the lifetime metadata the Host consumes: one
// constructor function and one lifetime per implementation type, plus any
// interface types the implementation is exposed as.
//
//	reg := host.NewRegistry().
//	    Singleton(NewDatabase).
//	    Scoped(NewUserStore, host.As[UserReader]()).
//	    Transient(NewRequestTracer)
//
// Registration mistakes are not reported here; they surface together as
// RegistrationErrors when the Host is built.
type Registry struct {
	pending []pendingRegistration
}

type pendingRegistration struct {
	ctor     any
	lifetime Lifetime
	opts     []RegisterOption
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// Singleton registers ctor with process-wide lifetime: the instance is
// constructed once and shared by every scope.
func (r *Registry) Singleton(ctor any, opts ...RegisterOption) *Registry {
	return r.add(ctor, Singleton, opts)
}

// Scoped registers ctor with per-scope lifetime: each Scope caches its
// own instance.
func (r *Registry) Scoped(ctor any, opts ...RegisterOption) *Registry {
	return r.add(ctor, Scoped, opts)
}

// Transient registers ctor with per-request lifetime: every resolution
// constructs a fresh instance.
func (r *Registry) Transient(ctor any, opts ...RegisterOption) *Registry {
	return r.add(ctor, Transient, opts)
}

// Install applies each module's registrations to the registry.
func (r *Registry) Install(modules ...Module) *Registry {
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

func (r *Registry) add(ctor any, lifetime Lifetime, opts []RegisterOption) *Registry {
	r.pending = append(r.pending, pendingRegistration{ctor: ctor, lifetime: lifetime, opts: opts})
	return r
}

// ── Table build ──────────────────────────────────────────────────────────────

// build validates every pending registration and produces the immutable
// descriptor table. All failures are collected and reported together.
func (r *Registry) build() (*table, error) {
	t := &table{byType: make(map[reflect.Type]*descriptor)}
	var errs error

	for _, p := range r.pending {
		d, err := newDescriptor(p)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		for _, exp := range d.exposed {
			prev, taken := t.byType[exp]
			if taken && prev == d {
				continue // same registration exposed twice under one type
			}
			if taken {
				reason := fmt.Sprintf("exposed type %s is already provided by %s", exp, prev.implType)
				if exp == d.implType && prev.implType == d.implType {
					reason = "registered more than once"
				}
				errs = multierr.Append(errs, &RegistrationError{Type: d.implType, Reason: reason})
				continue
			}
			t.byType[exp] = d
		}
		t.all = append(t.all, d)
	}

	if errs != nil {
		return nil, errs
	}
	return t, nil
}

// newDescriptor validates one registration's constructor. The accepted
// shapes are func(deps...) T and func(deps...) (T, error) with concrete T.
func newDescriptor(p pendingRegistration) (*descriptor, error) {
	if p.ctor == nil {
		return nil, &RegistrationError{Reason: "constructor is nil"}
	}
	v := reflect.ValueOf(p.ctor)
	ft := v.Type()
	if ft.Kind() != reflect.Func {
		return nil, &RegistrationError{Reason: fmt.Sprintf("constructor must be a function, got %s", ft)}
	}
	if ft.IsVariadic() {
		return nil, &RegistrationError{Reason: fmt.Sprintf("constructor %s must not be variadic", ft)}
	}

	returnsErr := false
	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != errType {
			return nil, &RegistrationError{Reason: fmt.Sprintf("constructor %s: second result must be error", ft)}
		}
		returnsErr = true
	default:
		return nil, &RegistrationError{Reason: fmt.Sprintf("constructor %s must return the service, optionally with an error", ft)}
	}

	implType := ft.Out(0)
	if implType.Kind() == reflect.Interface {
		return nil, &RegistrationError{Type: implType,
			Reason: "constructor must return a concrete type; expose interfaces with As"}
	}

	d := &descriptor{
		implType:   implType,
		lifetime:   p.lifetime,
		ctor:       v,
		returnsErr: returnsErr,
		exposed:    []reflect.Type{implType},
	}
	for i := 0; i < ft.NumIn(); i++ {
		d.paramTypes = append(d.paramTypes, ft.In(i))
	}
	for _, opt := range p.opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}
