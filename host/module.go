package host

// Module groups related registrations so callers can install them as a
// unit.
//
//	type StorageModule struct{ DSN string }
//
//	func (m StorageModule) Register(r *host.Registry) {
//	    dsn := m.DSN
//	    r.Singleton(func() *Pool { return Dial(dsn) })
//	    r.Scoped(NewTx)
//	}
//
//	reg := host.NewRegistry().Install(StorageModule{DSN: dsn})
type Module interface {
	Register(r *Registry)
}

// ModuleFunc adapts a plain function to the Module interface.
type ModuleFunc func(r *Registry)

func (f ModuleFunc) Register(r *Registry) { f(r) }
