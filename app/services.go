// Package app is the sample application hosted by main: a handful of
// services with deliberately different lifetimes, wired over HTTP
// request scopes.
package app

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tbanek/hoist/config"
)

// ── Database (singleton) ─────────────────────────────────────────────────────

// User is the sample domain record.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ErrDatabaseClosed is returned by operations against a closed Database.
var ErrDatabaseClosed = errors.New("app: database is closed")

// Database is the process-wide storage backend. One instance serves every
// scope; the host closes it when it tears down.
type Database struct {
	name string

	mu     sync.RWMutex
	users  map[string]User
	closed bool
}

// NewDatabase opens the in-memory database named by the configuration.
func NewDatabase(cfg *config.Config) *Database {
	return &Database{
		name:  cfg.App.Name,
		users: make(map[string]User),
	}
}

// Name reports which application this database belongs to.
func (db *Database) Name() string { return db.name }

func (db *Database) insert(u User) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return ErrDatabaseClosed
	}
	db.users[u.ID] = u
	return nil
}

func (db *Database) all() ([]User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.closed {
		return nil, ErrDatabaseClosed
	}
	out := make([]User, 0, len(db.users))
	for _, u := range db.users {
		out = append(out, u)
	}
	return out, nil
}

// Close releases the database. Idempotent.
func (db *Database) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.closed = true
	return nil
}

// ── UserStore (scoped) ───────────────────────────────────────────────────────

// UserStore is the per-request view over the shared Database. Each scope
// gets its own store; all of them reference the same Database instance.
type UserStore struct {
	db *Database
}

func NewUserStore(db *Database) *UserStore {
	return &UserStore{db: db}
}

// Create stores a new user under a generated ID.
func (s *UserStore) Create(name string) (User, error) {
	u := User{ID: uuid.NewString(), Name: name}
	if err := s.db.insert(u); err != nil {
		return User{}, err
	}
	return u, nil
}

// List returns every stored user.
func (s *UserStore) List() ([]User, error) {
	return s.db.all()
}

// ── RequestTracer (transient) ────────────────────────────────────────────────

// RequestTracer carries a fresh trace identity. Being transient, every
// resolution yields a new one, even two in the same request.
type RequestTracer struct {
	TraceID string
	Started time.Time

	log *zap.Logger
}

func NewRequestTracer(log *zap.Logger) *RequestTracer {
	return &RequestTracer{
		TraceID: uuid.NewString(),
		Started: time.Now(),
		log:     log,
	}
}

// Done logs the elapsed time for the traced unit of work.
func (t *RequestTracer) Done(what string) {
	t.log.Debug("trace done",
		zap.String("trace_id", t.TraceID),
		zap.String("what", what),
		zap.Duration("elapsed", time.Since(t.Started)))
}
