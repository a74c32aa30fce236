package httpscope_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/tbanek/hoist/host"
	"github.com/tbanek/hoist/httpscope"
)

// ── stub services ─────────────────────────────────────────────────────────────

type backend struct{}

func newBackend() *backend { return &backend{} }

type session struct {
	db     *backend
	closed *int
}

func (s *session) Close() error { *s.closed++; return nil }

func newHost(t *testing.T, closed *int) *host.Host {
	t.Helper()
	reg := host.NewRegistry().
		Singleton(newBackend).
		Scoped(func(db *backend) *session { return &session{db: db, closed: closed} })
	h, err := host.New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = h.Close() })
	return h
}

// ── middleware ────────────────────────────────────────────────────────────────

func TestMiddleware_OneScopedInstancePerRequest(t *testing.T) {
	var closed int
	h := newHost(t, &closed)

	seen := make([]*session, 0, 2)
	r := chi.NewRouter()
	r.Use(httpscope.Middleware(h))
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		first, err := httpscope.Get[*session](req)
		if err != nil {
			t.Errorf("Get: %v", err)
			return
		}
		second, _ := httpscope.Get[*session](req)
		if first != second {
			t.Error("two resolutions in one request should share the instance")
		}
		seen = append(seen, first)
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	for i := 0; i < 2; i++ {
		res, err := http.Get(srv.URL + "/")
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		res.Body.Close()
	}

	if len(seen) != 2 || seen[0] == seen[1] {
		t.Error("distinct requests should receive distinct scoped instances")
	}
	if seen[0].db != seen[1].db {
		t.Error("both requests should share the singleton backend")
	}
}

func TestMiddleware_ClosesScopeAfterResponse(t *testing.T) {
	var closed int
	h := newHost(t, &closed)

	r := chi.NewRouter()
	r.Use(httpscope.Middleware(h))
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		if _, err := httpscope.Get[*session](req); err != nil {
			t.Errorf("Get: %v", err)
		}
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	res, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	res.Body.Close()

	if closed != 1 {
		t.Errorf("session closed %d times after the request, want 1", closed)
	}
}

// ── without middleware ────────────────────────────────────────────────────────

func TestGet_WithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if s := httpscope.FromContext(req.Context()); s != nil {
		t.Error("FromContext should be nil without the middleware")
	}
	if _, err := httpscope.Get[*session](req); !errors.Is(err, httpscope.ErrNoScope) {
		t.Errorf("want ErrNoScope, got %v", err)
	}
}
