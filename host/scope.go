package host

import (
	"io"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Scope is a bounded unit of instance sharing and disposal. Scoped
// services resolved through it are cached for its lifetime; every
// io.Closer it constructs is released, newest first, when the scope is
// closed. The Host's root scope plays the same role for singletons.
type Scope struct {
	host *Host
	id   string
	root bool

	// flight dedupes concurrent first-access construction per type, so
	// unrelated services never contend on a shared lock.
	flight singleflight.Group

	mu       sync.Mutex
	cache    map[reflect.Type]any
	closers  []io.Closer
	disposed bool
}

func newScope(h *Host, root bool) *Scope {
	return &Scope{
		host:  h,
		id:    uuid.NewString(),
		root:  root,
		cache: make(map[reflect.Type]any),
	}
}

// ID returns the scope's unique identifier, useful for correlating logs.
func (s *Scope) ID() string { return s.id }

// getOrCreate returns the scope's instance of d, constructing it at most
// once per type even under concurrent first access: losers of the race
// wait for the winner and observe its instance. A construction error is
// never latched; a later call starts over.
func (s *Scope) getOrCreate(d *descriptor, rc *resolveContext) (any, error) {
	if s.isDisposed() {
		return nil, &ScopeDisposedError{ScopeID: s.id}
	}
	if v, ok := s.cached(d.implType); ok {
		return v, nil
	}

	v, err, _ := s.flight.Do(typeKey(d.implType), func() (any, error) {
		// The winner of an earlier flight may have published while this
		// call was queued behind it.
		if v, ok := s.cached(d.implType); ok {
			return v, nil
		}
		inst, err := s.host.construct(d, rc, s)
		if err != nil {
			return nil, err
		}
		s.publish(d.implType, inst)
		return inst, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Scope) cached(impl reflect.Type) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cache[impl]
	return v, ok
}

// publish makes a fully constructed instance visible. Nothing is ever
// published mid-construction, and nothing lands in a closed scope.
func (s *Scope) publish(impl reflect.Type, inst any) {
	s.mu.Lock()
	if !s.disposed {
		s.cache[impl] = inst
	}
	s.mu.Unlock()
	s.host.log.Debug("service cached",
		zap.String("type", impl.String()),
		zap.String("scope", s.id))
}

func (s *Scope) isDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// track records a disposable instance in creation order. An instance
// finishing construction after the scope closed is released right away.
func (s *Scope) track(c io.Closer) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		_ = c.Close()
		return
	}
	s.closers = append(s.closers, c)
	s.mu.Unlock()
}

// Close disposes the scope: tracked instances are released in reverse
// creation order, best-effort. Failures are collected into a single
// DisposalError; none aborts the rest. After Close every resolution
// against the scope fails with ScopeDisposedError. Closing twice is a
// no-op. Closing the Host's root scope releases singletons.
func (s *Scope) Close() error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	s.disposed = true
	closers := s.closers
	s.closers = nil
	s.cache = nil
	s.mu.Unlock()

	var errs error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	s.host.log.Debug("scope closed",
		zap.String("scope", s.id),
		zap.Bool("root", s.root),
		zap.Int("released", len(closers)))
	if errs != nil {
		return &DisposalError{Errors: multierr.Errors(errs)}
	}
	return nil
}
