package host

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Host owns the descriptor table and the root scope for the life of the
// process. It is the single composition root: services are handed out
// through Get / GetFrom, never by reaching into caches directly.
type Host struct {
	table *table
	root  *Scope
	log   *zap.Logger
}

// New builds a Host from reg, validating every registration. Most
// programs want Initialize; New exists for tests and for running several
// independent hosts side by side.
func New(reg *Registry, opts ...Option) (*Host, error) {
	t, err := reg.build()
	if err != nil {
		return nil, err
	}
	h := &Host{table: t, log: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	h.root = newScope(h, true)
	h.log.Debug("host initialized",
		zap.Int("services", len(t.all)),
		zap.String("root_scope", h.root.id))
	return h, nil
}

var (
	initOnce sync.Once
	initHost *Host
	initErr  error
)

// Initialize builds the process-wide Host on first call. Every later
// call returns the same Host (and the same build error, if building
// failed), whatever arguments it is given; there is no way back to the
// uninitialized state. Callers are expected to thread the returned
// handle through explicitly rather than look it up ambiently.
func Initialize(reg *Registry, opts ...Option) (*Host, error) {
	initOnce.Do(func() {
		initHost, initErr = New(reg, opts...)
	})
	return initHost, initErr
}

// CreateScope returns a fresh Scope with an empty cache. The caller owns
// it and is responsible for Close.
func (h *Host) CreateScope() *Scope {
	s := newScope(h, false)
	h.log.Debug("scope created", zap.String("scope", s.id))
	return s
}

// Close tears down the Host by closing the root scope, releasing every
// singleton in reverse creation order.
func (h *Host) Close() error { return h.root.Close() }

// Descriptors lists every registered implementation type with its
// lifetime, sorted, for diagnostics.
func (h *Host) Descriptors() []string {
	out := make([]string, 0, len(h.table.all))
	for _, d := range h.table.all {
		out = append(out, fmt.Sprintf("%s (%s)", d.implType, d.lifetime))
	}
	sort.Strings(out)
	return out
}

// getFrom is the shared entry point behind Get and GetFrom. A disposed
// scope fails every request, including ones a live root scope could have
// answered.
func (h *Host) getFrom(s *Scope, req reflect.Type) (any, error) {
	if s.isDisposed() {
		return nil, &ScopeDisposedError{ScopeID: s.id}
	}
	return h.resolve(req, &resolveContext{scope: s})
}

// ── Generic accessors ────────────────────────────────────────────────────────

// Get resolves T from the Host's root scope.
//
//	db, err := host.Get[*Database](h)
func Get[T any](h *Host) (T, error) {
	return GetFrom[T](h.root)
}

// GetFrom resolves T against s: scoped services are cached in s,
// singletons in the root scope, transients not at all.
func GetFrom[T any](s *Scope) (T, error) {
	var zero T
	req := reflect.TypeOf((*T)(nil)).Elem()
	v, err := s.host.getFrom(s, req)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("host: %s resolved to unexpected %T", req, v)
	}
	return typed, nil
}

// MustGet is Get for wiring code where a failure is fatal anyway.
func MustGet[T any](h *Host) T {
	v, err := Get[T](h)
	if err != nil {
		panic(err)
	}
	return v
}

// MustGetFrom is GetFrom with the same panic policy as MustGet.
func MustGetFrom[T any](s *Scope) T {
	v, err := GetFrom[T](s)
	if err != nil {
		panic(err)
	}
	return v
}
