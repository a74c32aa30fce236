package host

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/multierr"
)

// ErrNotRegistered is returned when a requested type has no descriptor.
// Wrap-aware: test with errors.Is.
var ErrNotRegistered = errors.New("host: service not registered")

// RegistrationError reports a single invalid registration found while the
// descriptor table is built. Building aggregates every failure, so a
// registry with several mistakes reports all of them at once.
type RegistrationError struct {
	Type   reflect.Type // implementation type; nil when it could not be determined
	Reason string
}

func (e *RegistrationError) Error() string {
	if e.Type == nil {
		return "host: invalid registration: " + e.Reason
	}
	return fmt.Sprintf("host: invalid registration for %s: %s", e.Type, e.Reason)
}

// CyclicDependencyError is returned when a resolution would construct a
// type that is already under construction on the same call stack. Path
// holds the full chain; its first and last elements are the same type.
type CyclicDependencyError struct {
	Path []reflect.Type
}

func (e *CyclicDependencyError) Error() string {
	names := make([]string, len(e.Path))
	for i, t := range e.Path {
		names[i] = t.String()
	}
	return "host: cyclic dependency: " + strings.Join(names, " -> ")
}

// CaptiveDependencyError is returned when a longer-lived service would
// capture a shorter-lived one, keeping it alive past its intended
// lifetime.
type CaptiveDependencyError struct {
	Consumer           reflect.Type
	ConsumerLifetime   Lifetime
	Dependency         reflect.Type
	DependencyLifetime Lifetime
}

func (e *CaptiveDependencyError) Error() string {
	return fmt.Sprintf("host: captive dependency: %s %s cannot depend on %s %s",
		e.ConsumerLifetime, e.Consumer, e.DependencyLifetime, e.Dependency)
}

// ScopeDisposedError is returned for any operation against a scope that
// has already been closed.
type ScopeDisposedError struct {
	ScopeID string
}

func (e *ScopeDisposedError) Error() string {
	return fmt.Sprintf("host: scope %s is disposed", e.ScopeID)
}

// DisposalError aggregates the failures collected while a scope released
// its disposable instances. Disposal is best-effort: one failing instance
// never prevents the rest from being released, and no failure is dropped.
type DisposalError struct {
	Errors []error
}

func (e *DisposalError) Error() string {
	return fmt.Sprintf("host: %d instance(s) failed to release: %v",
		len(e.Errors), multierr.Combine(e.Errors...))
}

// Unwrap exposes the underlying failures to errors.Is / errors.As.
func (e *DisposalError) Unwrap() []error { return e.Errors }
