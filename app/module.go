package app

import "github.com/tbanek/hoist/host"

// Services groups the sample application's registrations so main can
// install them in one line.
type Services struct{}

func (Services) Register(r *host.Registry) {
	r.Singleton(NewDatabase)
	r.Singleton(NewContentCatalog)
	r.Scoped(NewUserStore)
	r.Transient(NewRequestTracer)
}
