// Package store implements the durable layer every other component
// reads and writes through: specs, their sync metadata and content-hashed
// base snapshots, detected conflicts, review ledger entries, and workflow
// event history.
//
// It uses modernc.org/sqlite with WAL mode, a package-level openDB var for
// test injection, and FTS5 virtual tables kept in sync with AFTER INSERT/UPDATE/
// DELETE triggers in the same migration — generalized from observations
// to specs. The table layout covers specs, workflow_events, sync_metadata,
// conflicts, and reviews, with a blobs table added for base retention.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var so tests can substitute an in-memory or
// instrumented driver without touching production code paths.
var openDB = sql.Open

// ErrStoreLocked is returned by New when another process already holds
// the advisory lock on the store at cfg.DataDir.
var ErrStoreLocked = errors.New("store: database already locked by another process")

// Config configures where the store keeps its database file.
type Config struct {
	DataDir string
}

// Store is the SQLite-backed persistence layer for the whole engine.
type Store struct {
	db       *sql.DB
	lockFile *os.File
}

// New opens (creating if necessary) the SQLite database under
// cfg.DataDir and runs migrations. It first takes an advisory exclusive
// lock on db/manifold.db.lock (flock on unix, best-effort no-op
// elsewhere) so a second process opening the same store fails fast with
// ErrStoreLocked instead of corrupting WAL state.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("store: creating data dir: %w", err)
	}

	lockFile, err := os.OpenFile(filepath.Join(cfg.DataDir, "manifold.db.lock"), os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("store: opening lock file: %w", err)
	}
	if err := acquireLock(lockFile); err != nil {
		lockFile.Close()
		if errors.Is(err, ErrStoreLocked) {
			return nil, ErrStoreLocked
		}
		return nil, fmt.Errorf("store: acquiring lock: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "manifold.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		releaseLock(lockFile)
		lockFile.Close()
		return nil, fmt.Errorf("store: opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			releaseLock(lockFile)
			lockFile.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, lockFile: lockFile}
	if err := s.migrate(); err != nil {
		db.Close()
		releaseLock(lockFile)
		lockFile.Close()
		return nil, fmt.Errorf("store: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection and releases the
// store's advisory lock.
func (s *Store) Close() error {
	err := s.db.Close()
	if s.lockFile != nil {
		releaseLock(s.lockFile)
		s.lockFile.Close()
	}
	return err
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS specs (
			id         TEXT PRIMARY KEY,
			project    TEXT NOT NULL,
			boundary   TEXT NOT NULL,
			data       TEXT NOT NULL,
			stage      TEXT NOT NULL DEFAULT 'requirements',
			updated_at INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_specs_project  ON specs(project);
		CREATE INDEX IF NOT EXISTS idx_specs_boundary ON specs(boundary);
		CREATE INDEX IF NOT EXISTS idx_specs_stage    ON specs(stage);

		CREATE VIRTUAL TABLE IF NOT EXISTS specs_fts USING fts5(
			id, project, boundary, name, content,
			tokenize = 'unicode61'
		);

		CREATE TABLE IF NOT EXISTS workflow_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			spec_id    TEXT    NOT NULL,
			stage      TEXT    NOT NULL,
			event      TEXT    NOT NULL,
			actor      TEXT    NOT NULL,
			timestamp  INTEGER NOT NULL,
			details    TEXT,
			FOREIGN KEY (spec_id) REFERENCES specs(id)
		);
		CREATE INDEX IF NOT EXISTS idx_events_spec ON workflow_events(spec_id);

		CREATE TABLE IF NOT EXISTS sync_metadata (
			spec_id             TEXT PRIMARY KEY,
			last_sync_timestamp INTEGER NOT NULL,
			last_sync_hash      TEXT NOT NULL,
			remote_branch       TEXT,
			sync_status         TEXT NOT NULL DEFAULT 'modified',
			FOREIGN KEY (spec_id) REFERENCES specs(id)
		);

		CREATE TABLE IF NOT EXISTS blobs (
			hash    TEXT PRIMARY KEY,
			spec_id TEXT NOT NULL,
			data    TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_blobs_spec ON blobs(spec_id);

		CREATE TABLE IF NOT EXISTS conflicts (
			id           TEXT PRIMARY KEY,
			spec_id      TEXT NOT NULL,
			field_path   TEXT NOT NULL,
			local_value  TEXT,
			remote_value TEXT,
			base_value   TEXT,
			detected_at  INTEGER NOT NULL,
			status       TEXT NOT NULL DEFAULT 'unresolved',
			FOREIGN KEY (spec_id) REFERENCES specs(id)
		);
		CREATE INDEX IF NOT EXISTS idx_conflicts_spec   ON conflicts(spec_id);
		CREATE INDEX IF NOT EXISTS idx_conflicts_status ON conflicts(status);

		CREATE TABLE IF NOT EXISTS reviews (
			id           TEXT PRIMARY KEY,
			spec_id      TEXT NOT NULL,
			requester    TEXT NOT NULL,
			reviewer     TEXT NOT NULL,
			status       TEXT NOT NULL DEFAULT 'pending',
			comment      TEXT,
			requested_at INTEGER NOT NULL,
			reviewed_at  INTEGER,
			FOREIGN KEY (spec_id) REFERENCES specs(id)
		);
		CREATE INDEX IF NOT EXISTS idx_reviews_spec   ON reviews(spec_id);
		CREATE INDEX IF NOT EXISTS idx_reviews_status ON reviews(status);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	var triggerName string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='trigger' AND name='specs_fts_insert'",
	).Scan(&triggerName)
	if err == sql.ErrNoRows {
		triggers := `
			CREATE TRIGGER specs_fts_insert AFTER INSERT ON specs BEGIN
				INSERT INTO specs_fts(rowid, id, project, boundary, name, content)
				VALUES (new.rowid, new.id, new.project, new.boundary, '', new.data);
			END;

			CREATE TRIGGER specs_fts_delete AFTER DELETE ON specs BEGIN
				DELETE FROM specs_fts WHERE rowid = old.rowid;
			END;

			CREATE TRIGGER specs_fts_update AFTER UPDATE ON specs BEGIN
				DELETE FROM specs_fts WHERE rowid = old.rowid;
				INSERT INTO specs_fts(rowid, id, project, boundary, name, content)
				VALUES (new.rowid, new.id, new.project, new.boundary, '', new.data);
			END;
		`
		if _, err := s.db.Exec(triggers); err != nil {
			return err
		}
	} else if err != nil && err != sql.ErrNoRows {
		return err
	}

	return nil
}
