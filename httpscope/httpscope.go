// Package httpscope bridges the service host to HTTP handlers: one Scope
// per request, carried in the request context and closed when the
// handler returns.
package httpscope

import (
	"context"
	"errors"
	"net/http"

	"github.com/tbanek/hoist/host"
)

// ErrNoScope is returned when a request context carries no scope, i.e.
// Middleware is not installed on the route.
var ErrNoScope = errors.New("httpscope: no scope in request context")

type ctxKey struct{}

// Middleware opens a Scope for each request, injects it into the request
// context, and closes it once the handler returns. Scoped services
// resolved during the request are shared across the handler chain and
// released at the end of it.
//
//	r := chi.NewRouter()
//	r.Use(httpscope.Middleware(h))
func Middleware(h *host.Host) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := h.CreateScope()
			defer func() { _ = scope.Close() }()

			ctx := context.WithValue(r.Context(), ctxKey{}, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the request scope, or nil when Middleware is not
// installed.
func FromContext(ctx context.Context) *host.Scope {
	s, _ := ctx.Value(ctxKey{}).(*host.Scope)
	return s
}

// Get resolves T from the scope carried by r's context.
//
//	store, err := httpscope.Get[*app.UserStore](r)
func Get[T any](r *http.Request) (T, error) {
	s := FromContext(r.Context())
	if s == nil {
		var zero T
		return zero, ErrNoScope
	}
	return host.GetFrom[T](s)
}
