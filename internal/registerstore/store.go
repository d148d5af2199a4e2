// Package registerstore persists named registers across editor sessions in a
// small SQLite database.
package registerstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/modal/internal/editor"
	"github.com/zjrosen/modal/internal/log"
	"github.com/zjrosen/modal/internal/tracing"
)

// schemaVersion is stored in PRAGMA user_version.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS registers (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// Entry is one stored register.
type Entry struct {
	Key       rune
	Value     string
	UpdatedAt time.Time
}

// Store reads and writes registers.
type Store struct {
	db     *sql.DB
	path   string
	tracer trace.Tracer
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTracer records spans for Load and Save.
func WithTracer(t trace.Tracer) Option {
	return func(s *Store) { s.tracer = t }
}

// WithNow overrides the timestamp source.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open opens or creates the database at path. ":memory:" opens a private
// in-memory database.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("creating register directory: %w", err)
		}
	}

	log.Debug(log.CatRegister, "Opening register store", "path", path)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening register store: %w", err)
	}
	// One connection keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:     db,
		path:   path,
		tracer: noop.NewTracerProvider().Tracer(tracing.ServiceName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		log.ErrorErr(log.CatRegister, "Failed to prepare register store", err, "path", path)
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("register store schema version %d is newer than supported %d", version, schemaVersion)
	}
	if version == schemaVersion {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("writing schema version: %w", err)
	}
	return nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Entries returns every stored register ordered by key.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value, updated_at FROM registers ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("querying registers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var (
			key     string
			value   string
			updated int64
		)
		if err := rows.Scan(&key, &value, &updated); err != nil {
			return nil, fmt.Errorf("scanning register: %w", err)
		}
		r := []rune(key)
		if len(r) != 1 || !editor.IsValidRegister(r[0]) || r[0] == editor.ClipboardRegister {
			log.Warn(log.CatRegister, "Skipping invalid stored register", "key", key)
			continue
		}
		out = append(out, Entry{Key: r[0], Value: value, UpdatedAt: time.Unix(updated, 0)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating registers: %w", err)
	}
	return out, nil
}

// Load returns stored registers keyed by register name.
func (s *Store) Load(ctx context.Context) (regs map[rune]string, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, tracing.SpanRegistersLoad)
	defer func() { tracing.End(span, err) }()

	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	regs = make(map[rune]string, len(entries))
	for _, e := range entries {
		regs[e.Key] = e.Value
	}
	span.SetAttributes(attribute.Int(tracing.AttrRegisters, len(regs)))
	log.Debug(log.CatRegister, "Loaded registers", "count", len(regs))
	return regs, nil
}

// Save replaces the stored registers with regs in one transaction. Rows whose
// value is unchanged keep their updated_at; keys missing from regs are
// deleted. The clipboard register and invalid keys are skipped.
func (s *Store) Save(ctx context.Context, regs map[rune]string) (err error) {
	ctx, span := tracing.Start(ctx, s.tracer, tracing.SpanRegistersSave)
	defer func() { tracing.End(span, err) }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stale, err := storedKeys(ctx, tx)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO registers (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		WHERE registers.value <> excluded.value`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := s.now().Unix()
	count := 0
	for key, value := range regs {
		if !editor.IsValidRegister(key) || key == editor.ClipboardRegister {
			continue
		}
		if _, err = stmt.ExecContext(ctx, string(key), value, now); err != nil {
			return fmt.Errorf("saving register %q: %w", key, err)
		}
		delete(stale, string(key))
		count++
	}

	for key := range stale {
		if _, err = tx.ExecContext(ctx, "DELETE FROM registers WHERE key = ?", key); err != nil {
			return fmt.Errorf("deleting register %q: %w", key, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing registers: %w", err)
	}
	span.SetAttributes(attribute.Int(tracing.AttrRegisters, count))
	log.Debug(log.CatRegister, "Saved registers", "count", count, "deleted", len(stale))
	return nil
}

func storedKeys(ctx context.Context, tx *sql.Tx) (map[string]struct{}, error) {
	rows, err := tx.QueryContext(ctx, "SELECT key FROM registers")
	if err != nil {
		return nil, fmt.Errorf("querying register keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	keys := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning register key: %w", err)
		}
		keys[key] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating register keys: %w", err)
	}
	return keys, nil
}

// LoadInto restores stored registers into reg.
func (s *Store) LoadInto(ctx context.Context, reg *editor.Register) error {
	regs, err := s.Load(ctx)
	if err != nil {
		return err
	}
	reg.Restore(regs)
	return nil
}

// SaveFrom persists the contents of reg.
func (s *Store) SaveFrom(ctx context.Context, reg *editor.Register) error {
	return s.Save(ctx, reg.Snapshot())
}
