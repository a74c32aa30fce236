package host

import (
	"fmt"
	"io"
	"reflect"

	"go.uber.org/zap"
)

// resolveContext carries the state of one top-level resolution: the scope
// the call was issued against, and the ordered chain of types currently
// under construction on this call stack. Created per Get call, discarded
// when it returns.
type resolveContext struct {
	scope *Scope
	stack []frame
}

type frame struct {
	impl     reflect.Type
	lifetime Lifetime
}

func (rc *resolveContext) inProgress(t reflect.Type) bool {
	for _, f := range rc.stack {
		if f.impl == t {
			return true
		}
	}
	return false
}

// cyclePath returns the in-progress chain from the first occurrence of t
// through the current frame, closed with t again.
func (rc *resolveContext) cyclePath(t reflect.Type) []reflect.Type {
	start := 0
	for i, f := range rc.stack {
		if f.impl == t {
			start = i
			break
		}
	}
	path := make([]reflect.Type, 0, len(rc.stack)-start+1)
	for _, f := range rc.stack[start:] {
		path = append(path, f.impl)
	}
	return append(path, t)
}

// consumer is the type whose constructor parameters are being resolved.
func (rc *resolveContext) consumer() (frame, bool) {
	if len(rc.stack) == 0 {
		return frame{}, false
	}
	return rc.stack[len(rc.stack)-1], true
}

// resolve produces an instance of the requested type within rc, applying
// lifetime policy. Registration, cycle and captivity checks all run
// before anything in the offending chain is constructed.
func (h *Host) resolve(req reflect.Type, rc *resolveContext) (any, error) {
	d, ok := h.table.lookup(req)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, req)
	}

	if rc.inProgress(d.implType) {
		return nil, &CyclicDependencyError{Path: rc.cyclePath(d.implType)}
	}

	// A service may not depend on anything shorter-lived than itself.
	if c, ok := rc.consumer(); ok && d.lifetime < c.lifetime {
		return nil, &CaptiveDependencyError{
			Consumer:           c.impl,
			ConsumerLifetime:   c.lifetime,
			Dependency:         d.implType,
			DependencyLifetime: d.lifetime,
		}
	}

	switch d.lifetime {
	case Singleton:
		// Always through the root scope's cache, whichever scope asked:
		// that is what makes the instance process-wide.
		return h.root.getOrCreate(d, rc)
	case Scoped:
		return rc.scope.getOrCreate(d, rc)
	default: // Transient
		if rc.scope.isDisposed() {
			return nil, &ScopeDisposedError{ScopeID: rc.scope.id}
		}
		return h.construct(d, rc, rc.scope)
	}
}

// construct invokes d's constructor, resolving each parameter first. The
// instance reaches its owning scope only after the constructor returned
// successfully; a failure leaves every cache untouched.
func (h *Host) construct(d *descriptor, rc *resolveContext, owner *Scope) (any, error) {
	rc.stack = append(rc.stack, frame{impl: d.implType, lifetime: d.lifetime})
	defer func() { rc.stack = rc.stack[:len(rc.stack)-1] }()

	args := make([]reflect.Value, len(d.paramTypes))
	for i, pt := range d.paramTypes {
		dep, err := h.resolve(pt, rc)
		if err != nil {
			return nil, fmt.Errorf("resolving %s for %s: %w", pt, d.implType, err)
		}
		args[i] = reflect.ValueOf(dep)
	}

	out := d.ctor.Call(args)
	if d.returnsErr && !out[1].IsNil() {
		return nil, fmt.Errorf("host: constructing %s: %w", d.implType, out[1].Interface().(error))
	}
	inst := out[0].Interface()

	if c, ok := inst.(io.Closer); ok {
		owner.track(c)
	}
	h.log.Debug("service constructed",
		zap.String("type", d.implType.String()),
		zap.Stringer("lifetime", d.lifetime),
		zap.String("scope", owner.id))
	return inst, nil
}
