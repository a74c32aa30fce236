// Package host is a small dependency-injection host: it discovers how to
// build each registered service from its constructor signature, resolves
// constructor dependencies recursively, and manages three instance
// lifetimes with thread-safe, cycle-safe instantiation and deterministic
// disposal.
//
// # Lifetimes
//
//   - Singleton: one instance per Host, cached in the root scope
//   - Scoped: one instance per Scope
//   - Transient: a fresh instance on every resolution, never cached
//
// A service may only depend on services at least as durable as itself;
// anything else is a CaptiveDependencyError.
//
// # Registering
//
// Registrations name a constructor function and a lifetime. Constructors
// have the shape func(deps...) T or func(deps...) (T, error) with a
// concrete T; every parameter is resolved from the same table.
//
//	reg := host.NewRegistry().
//	    Singleton(NewDatabase).
//	    Scoped(NewUserStore, host.As[UserReader]()).
//	    Transient(NewRequestTracer)
//
// Invalid constructors, duplicate registrations and ambiguous exposed
// types are RegistrationErrors reported together when the Host is built,
// never at first use.
//
// # Hosting and resolving
//
//	h, err := host.Initialize(reg)        // process-wide, idempotent
//	db, err := host.Get[*Database](h)     // root scope
//
//	scope := h.CreateScope()
//	defer scope.Close()
//	store, err := host.GetFrom[*UserStore](scope)
//
// Initialize latches the first Host for the process; tests and embedders
// that need independent hosts use host.New directly.
//
// # Scopes and disposal
//
// Each Scope caches its scoped instances and records every io.Closer it
// constructs, in creation order. Close releases them newest-first,
// collecting all failures into a DisposalError; afterwards every
// resolution against the scope fails with ScopeDisposedError. Closing the
// Host closes the root scope and with it the singletons.
//
// # Concurrency
//
// Resolution may be called from any number of goroutines. First-access
// construction is at-most-once per (scope, type): losers of the race wait
// for the winner's instance and never observe a partially constructed
// one. Construction of unrelated types proceeds fully concurrently.
//
// # Modules
//
// Related registrations can be grouped behind the Module interface and
// applied with Registry.Install; see the modules package for the built-in
// config and logging modules.
package host
