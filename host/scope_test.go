package host_test

import (
	"errors"
	"testing"

	"github.com/tbanek/hoist/host"
)

// ── disposable stubs ──────────────────────────────────────────────────────────

// closeLog records disposal order across a test's services.
type closeLog struct{ order []string }

type firstUnit struct{ log *closeLog }

func (u *firstUnit) Close() error { u.log.order = append(u.log.order, "first"); return nil }

type secondUnit struct{ log *closeLog }

func (u *secondUnit) Close() error { u.log.order = append(u.log.order, "second"); return nil }

type thirdUnit struct{ log *closeLog }

func (u *thirdUnit) Close() error { u.log.order = append(u.log.order, "third"); return nil }

type faultyUnit struct {
	log *closeLog
	err error
}

func (u *faultyUnit) Close() error { u.log.order = append(u.log.order, "faulty"); return u.err }

// ── disposal order ────────────────────────────────────────────────────────────

func TestClose_ReleasesInReverseCreationOrder(t *testing.T) {
	log := &closeLog{}
	reg := host.NewRegistry().
		Scoped(func() *firstUnit { return &firstUnit{log: log} }).
		Scoped(func() *secondUnit { return &secondUnit{log: log} }).
		Scoped(func() *thirdUnit { return &thirdUnit{log: log} })
	h, err := host.New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer h.Close()

	s := h.CreateScope()
	host.MustGetFrom[*firstUnit](s)
	host.MustGetFrom[*secondUnit](s)
	host.MustGetFrom[*thirdUnit](s)

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	want := []string{"third", "second", "first"}
	if len(log.order) != len(want) {
		t.Fatalf("released %d instances, want %d", len(log.order), len(want))
	}
	for i := range want {
		if log.order[i] != want[i] {
			t.Fatalf("release order: got %v, want %v", log.order, want)
		}
	}
}

func TestClose_CollectsEveryFailure(t *testing.T) {
	log := &closeLog{}
	errA := errors.New("flush failed")
	reg := host.NewRegistry().
		Scoped(func() *firstUnit { return &firstUnit{log: log} }).
		Scoped(func() *faultyUnit { return &faultyUnit{log: log, err: errA} }).
		Scoped(func() *secondUnit { return &secondUnit{log: log} })
	h, err := host.New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer h.Close()

	s := h.CreateScope()
	host.MustGetFrom[*firstUnit](s)
	host.MustGetFrom[*faultyUnit](s)
	host.MustGetFrom[*secondUnit](s)

	err = s.Close()
	var dispErr *host.DisposalError
	if !errors.As(err, &dispErr) {
		t.Fatalf("want DisposalError, got %v", err)
	}
	if len(dispErr.Errors) != 1 {
		t.Errorf("collected failures: got %d, want 1", len(dispErr.Errors))
	}
	if !errors.Is(err, errA) {
		t.Error("the underlying failure should remain reachable with errors.Is")
	}
	// Best-effort: the failure must not stop the remaining releases.
	if len(log.order) != 3 {
		t.Errorf("released %d of 3 instances despite one failure", len(log.order))
	}
}

func TestClose_Idempotent(t *testing.T) {
	log := &closeLog{}
	reg := host.NewRegistry().Scoped(func() *firstUnit { return &firstUnit{log: log} })
	h, err := host.New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer h.Close()

	s := h.CreateScope()
	host.MustGetFrom[*firstUnit](s)

	if err := s.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got %v", err)
	}
	if len(log.order) != 1 {
		t.Errorf("instance released %d times, want 1", len(log.order))
	}
}

// ── disposed scopes ───────────────────────────────────────────────────────────

func TestDisposedScope_FailsEveryResolution(t *testing.T) {
	reg := host.NewRegistry().
		Singleton(newDatabaseService).
		Scoped(newUserService)
	h, err := host.New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer h.Close()

	s := h.CreateScope()
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var dispErr *host.ScopeDisposedError
	if _, err := host.GetFrom[*userService](s); !errors.As(err, &dispErr) {
		t.Errorf("scoped resolution: want ScopeDisposedError, got %v", err)
	}
	// Even requests the root scope could answer fail through a dead scope.
	if _, err := host.GetFrom[*databaseService](s); !errors.As(err, &dispErr) {
		t.Errorf("singleton resolution: want ScopeDisposedError, got %v", err)
	}
	if dispErr.ScopeID != s.ID() {
		t.Errorf("error names scope %s, want %s", dispErr.ScopeID, s.ID())
	}
}

func TestHostClose_ReleasesSingletons(t *testing.T) {
	log := &closeLog{}
	reg := host.NewRegistry().Singleton(func() *firstUnit { return &firstUnit{log: log} })
	h, err := host.New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	host.MustGet[*firstUnit](h)
	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(log.order) != 1 {
		t.Errorf("singleton should be released by host teardown, got %v", log.order)
	}

	var dispErr *host.ScopeDisposedError
	if _, err := host.Get[*firstUnit](h); !errors.As(err, &dispErr) {
		t.Errorf("resolution after host teardown: want ScopeDisposedError, got %v", err)
	}
}

// ── transient tracking ────────────────────────────────────────────────────────

func TestTransientClosers_ReleasedWithTheirScope(t *testing.T) {
	log := &closeLog{}
	reg := host.NewRegistry().Transient(func() *firstUnit { return &firstUnit{log: log} })
	h, err := host.New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer h.Close()

	s := h.CreateScope()
	a := host.MustGetFrom[*firstUnit](s)
	b := host.MustGetFrom[*firstUnit](s)
	if a == b {
		t.Fatal("transients should be distinct")
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(log.order) != 2 {
		t.Errorf("both transient instances should be released, got %d", len(log.order))
	}
}

func TestCreateScope_DistinctIdentities(t *testing.T) {
	h, err := host.New(host.NewRegistry())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer h.Close()

	s1, s2 := h.CreateScope(), h.CreateScope()
	defer s1.Close()
	defer s2.Close()
	if s1.ID() == s2.ID() || s1.ID() == "" {
		t.Error("scopes should carry distinct non-empty identities")
	}
}
