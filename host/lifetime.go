package host

import "fmt"

// Lifetime governs how many instances of a service exist and how long
// each one lives. Values are ordered by durability: a service may only
// depend on services at least as durable as itself.
type Lifetime int

const (
	// Transient services are constructed anew on every resolution and
	// never cached.
	Transient Lifetime = iota

	// Scoped services are constructed at most once per Scope and shared
	// within it.
	Scoped

	// Singleton services are constructed at most once per Host and shared
	// by every scope.
	Singleton
)

func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "transient"
	case Scoped:
		return "scoped"
	case Singleton:
		return "singleton"
	default:
		return fmt.Sprintf("lifetime(%d)", int(l))
	}
}
