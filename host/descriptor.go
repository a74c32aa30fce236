package host

import "reflect"

// descriptor is the immutable metadata record for one registered
// implementation type: how to construct it, how long it lives, and the
// set of types it may be requested as.
type descriptor struct {
	implType   reflect.Type
	lifetime   Lifetime
	ctor       reflect.Value
	paramTypes []reflect.Type
	returnsErr bool
	exposed    []reflect.Type // always includes implType
}

// table maps every exposed type to the single descriptor that satisfies
// it. Read-only after build; concurrent reads need no synchronization.
type table struct {
	byType map[reflect.Type]*descriptor
	all    []*descriptor
}

func (t *table) lookup(typ reflect.Type) (*descriptor, bool) {
	d, ok := t.byType[typ]
	return d, ok
}

// typeKey is a stable per-type identifier. reflect.Type.String can
// collide for same-named types in different packages, so package paths
// are kept.
func typeKey(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		return "*" + typeKey(t.Elem())
	}
	if pkg := t.PkgPath(); pkg != "" {
		return pkg + "." + t.Name()
	}
	return t.String()
}
