// Package store implements the optional vault-snapshot persistence
// named as a peripheral collaborator in spec.md §1: on restart, a
// server can reload a recent snapshot of which files existed and when
// they were last modified, instead of re-walking and re-scanning the
// whole vault from a cold cache. The core (internal/vault,
// internal/completion, internal/query) never imports this package —
// cmd/server wires it in narrowly, at startup and on a periodic flush.
//
// Grounded on the teacher's internal/db/connection.go (sqlx connection
// pooling, Config/DB shape, Transaction helper) with the node/edge
// graph-CRUD schema replaced by a single file-snapshot table.
package store

import (
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Config holds database connection configuration.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Store wraps sqlx.DB with the vault-snapshot schema's access methods.
type Store struct {
	*sqlx.DB
}

// Open connects to postgres with connection pooling, exactly as the
// teacher's NewDB does.
func Open(cfg Config) (*Store, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	s, err := open(dsn)
	if err != nil {
		return nil, err
	}
	log.Printf("store: connected to %s@%s:%d/%s", cfg.User, cfg.Host, cfg.Port, cfg.DBName)
	return s, nil
}

// OpenDSN connects to postgres using a raw connection string (either
// "key=value ..." or a "postgres://" URL), for callers that already
// have a fully-formed DSN (e.g. from config.StoreConfig.DSN) rather
// than discrete host/port/user fields.
func OpenDSN(dsn string) (*Store, error) {
	s, err := open(dsn)
	if err != nil {
		return nil, err
	}
	log.Printf("store: connected via dsn")
	return s, nil
}

func open(dsn string) (*Store, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to store database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping store database: %w", err)
	}

	return &Store{db}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.DB.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS vault_files (
	path       TEXT PRIMARY KEY,
	mod_time   TIMESTAMPTZ NOT NULL,
	snapshot_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the snapshot table if it doesn't exist yet.
func (s *Store) EnsureSchema() error {
	if _, err := s.Exec(schema); err != nil {
		return fmt.Errorf("failed to create vault_files schema: %w", err)
	}
	return nil
}

// FileSnapshot is one row of the vault_files table.
type FileSnapshot struct {
	Path    string    `db:"path"`
	ModTime time.Time `db:"mod_time"`
}

// SaveSnapshot replaces the whole vault_files table with files, run
// inside a single transaction so readers never see a partially-written
// snapshot (mirrors the teacher's Transaction helper).
func (s *Store) SaveSnapshot(files []FileSnapshot) error {
	return s.Transaction(func(tx *sqlx.Tx) error {
		if _, err := tx.Exec("DELETE FROM vault_files"); err != nil {
			return fmt.Errorf("failed to clear vault_files: %w", err)
		}
		for _, f := range files {
			_, err := tx.Exec(
				"INSERT INTO vault_files (path, mod_time) VALUES ($1, $2)",
				f.Path, f.ModTime,
			)
			if err != nil {
				return fmt.Errorf("failed to insert vault_files row for %q: %w", f.Path, err)
			}
		}
		return nil
	})
}

// LoadSnapshot returns the most recently saved file list, or an empty
// slice if none was ever saved (a cold start).
func (s *Store) LoadSnapshot() ([]FileSnapshot, error) {
	var out []FileSnapshot
	if err := s.Select(&out, "SELECT path, mod_time FROM vault_files ORDER BY path"); err != nil {
		return nil, fmt.Errorf("failed to load vault_files: %w", err)
	}
	return out, nil
}

// Transaction executes fn within a database transaction, committing on
// success and rolling back (re-panicking) on failure or panic — the
// teacher's internal/db/connection.go helper, unchanged in shape.
func (s *Store) Transaction(fn func(*sqlx.Tx) error) error {
	tx, err := s.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("store: failed to rollback transaction during panic: %v", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed: %v, rollback failed: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
