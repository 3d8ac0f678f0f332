// Package store is the local persistence layer: SQLite-backed CRUD over the
// validated entities plus the date-normalized daily-log lookup. The store is
// a serialized-access unit: all mutations take the store mutex, so no caller
// ever observes a partial write.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"countme-core/internal/domain"
)

var ErrNotFound = errors.New("record not found")

const timeFormat = time.RFC3339Nano

// ChangeOp says what happened to an entity.
type ChangeOp string

const (
	ChangePut    ChangeOp = "put"
	ChangeDelete ChangeOp = "delete"
)

// Change is published to subscribers after a mutation commits. UI layers
// observe these instead of binding to store internals.
type Change struct {
	Entity domain.EntityType `json:"entity"`
	ID     string            `json:"id"`
	UserID string            `json:"user_id"`
	Op     ChangeOp          `json:"op"`
}

type Store struct {
	db  *sql.DB
	loc *time.Location

	mu sync.Mutex

	subMu     sync.RWMutex
	listeners []func(Change)
}

// Open opens (creating if needed) the SQLite database at path and applies
// pending migrations. loc is the timezone used for date normalization; nil
// means the system local zone.
func Open(path string, loc *time.Location) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}
	return &Store{db: db, loc: loc}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Location returns the timezone used for date normalization.
func (s *Store) Location() *time.Location { return s.loc }

// OnChange registers a listener invoked after every committed mutation.
func (s *Store) OnChange(fn func(Change)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify(c Change) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for _, fn := range s.listeners {
		fn(c)
	}
}

func formatTime(t time.Time) string { return t.UTC().Format(timeFormat) }

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(timeFormat, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored timestamp %q: %w", raw, err)
	}
	return t, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
