package host

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// ── Host options ─────────────────────────────────────────────────────────────

// Option configures a Host at construction time.
type Option func(*Host)

// WithLogger attaches a structured logger. Table build, scope lifecycle
// and instance construction are logged at debug level. The default is a
// no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(h *Host) {
		if log != nil {
			h.log = log
		}
	}
}

// ── Registration options ─────────────────────────────────────────────────────

// RegisterOption customizes a single registration.
type RegisterOption func(*descriptor) error

// As exposes a registration under the interface type T in addition to its
// implementation type, so it can be requested by either.
//
//	reg.Singleton(NewPostgresStore, host.As[Store]())
//
// T must be an interface the implementation satisfies; anything else is a
// RegistrationError at build time.
func As[T any]() RegisterOption {
	return func(d *descriptor) error {
		t := reflect.TypeOf((*T)(nil)).Elem()
		if t.Kind() != reflect.Interface {
			return &RegistrationError{Type: d.implType,
				Reason: fmt.Sprintf("As target %s is not an interface", t)}
		}
		if !d.implType.Implements(t) {
			return &RegistrationError{Type: d.implType,
				Reason: fmt.Sprintf("does not implement %s", t)}
		}
		d.exposed = append(d.exposed, t)
		return nil
	}
}
