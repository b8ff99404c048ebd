package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/manifold-dev/manifold/internal/spec"
)

// CreateSpec inserts a brand new spec. It fails if the id already exists.
func (s *Store) CreateSpec(ctx context.Context, sp *spec.Spec) error {
	data, err := json.Marshal(sp)
	if err != nil {
		return fmt.Errorf("store: marshaling spec: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO specs (id, project, boundary, data, stage, updated_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, sp.SpecID, sp.Project, string(sp.Boundary), string(data), string(sp.Stage),
		sp.History.UpdatedAt, sp.History.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: creating spec %q: %w", sp.SpecID, err)
	}
	return nil
}

// GetSpec fetches a spec by id. It returns sql.ErrNoRows if absent.
func (s *Store) GetSpec(ctx context.Context, id string) (*spec.Spec, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM specs WHERE id = ?`, id).Scan(&data)
	if err != nil {
		return nil, err
	}
	var sp spec.Spec
	if err := json.Unmarshal([]byte(data), &sp); err != nil {
		return nil, fmt.Errorf("store: unmarshaling spec %q: %w", id, err)
	}
	return &sp, nil
}

// execer is satisfied by both *sql.DB and *sql.Tx, so a write can run
// standalone or as part of a larger transaction through the same code.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PutSpec replaces an existing spec's stored document wholesale. Callers
// serialize writes against one spec_id themselves (the engine holds a
// per-spec mutex) — Store itself does not lock.
func (s *Store) PutSpec(ctx context.Context, sp *spec.Spec) error {
	return putSpec(ctx, s.db, sp)
}

func putSpec(ctx context.Context, q execer, sp *spec.Spec) error {
	data, err := json.Marshal(sp)
	if err != nil {
		return fmt.Errorf("store: marshaling spec: %w", err)
	}
	res, err := q.ExecContext(ctx, `
		UPDATE specs SET project = ?, boundary = ?, data = ?, stage = ?, updated_at = ?
		WHERE id = ?
	`, sp.Project, string(sp.Boundary), string(data), string(sp.Stage), sp.History.UpdatedAt, sp.SpecID)
	if err != nil {
		return fmt.Errorf("store: updating spec %q: %w", sp.SpecID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("store: spec %q not found", sp.SpecID)
	}
	return nil
}

// AdvanceWorkflow persists sp's new stage and journals event in the same
// transaction, so a crash between the two never leaves an advanced stage
// with no corresponding WorkflowEvent.
func (s *Store) AdvanceWorkflow(ctx context.Context, sp *spec.Spec, event spec.WorkflowEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := putSpec(ctx, tx, sp); err != nil {
		return err
	}
	if err := appendWorkflowEvent(ctx, tx, event); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteSpec removes a spec and its direct dependents (sync metadata,
// blobs). Conflicts and reviews are retained for audit purposes.
func (s *Store) DeleteSpec(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sync_metadata WHERE spec_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM blobs WHERE spec_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM specs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("store: spec %q not found", id)
	}
	return tx.Commit()
}

// Filter narrows ListSpecs. Zero-value fields are wildcards.
type Filter struct {
	Project  string
	Boundary spec.Boundary
	Stage    spec.Stage
}

// ListSpecs returns summaries for every spec matching f, newest-updated first.
func (s *Store) ListSpecs(ctx context.Context, f Filter) ([]spec.Summary, error) {
	query := `SELECT id, project, boundary, data, stage, updated_at FROM specs WHERE 1=1`
	var args []any
	if f.Project != "" {
		query += ` AND project = ?`
		args = append(args, f.Project)
	}
	if f.Boundary != "" {
		query += ` AND boundary = ?`
		args = append(args, string(f.Boundary))
	}
	if f.Stage != "" {
		query += ` AND stage = ?`
		args = append(args, string(f.Stage))
	}
	query += ` ORDER BY updated_at DESC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

// SearchSpecs runs a full-text search across spec content via FTS5. On a
// malformed FTS query it falls back to a plain substring LIKE scan so a
// user's search string never has to be a valid FTS5 query.
func (s *Store) SearchSpecs(ctx context.Context, query string) ([]spec.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT specs.id, specs.project, specs.boundary, specs.data, specs.stage, specs.updated_at
		FROM specs_fts
		JOIN specs ON specs.rowid = specs_fts.rowid
		WHERE specs_fts MATCH ?
		ORDER BY rank
	`, query)
	if err == nil {
		defer rows.Close()
		return scanSummaries(rows)
	}

	like := "%" + query + "%"
	rows, err = s.db.QueryContext(ctx, `
		SELECT id, project, boundary, data, stage, updated_at FROM specs
		WHERE data LIKE ? ORDER BY updated_at DESC
	`, like)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func scanSummaries(rows *sql.Rows) ([]spec.Summary, error) {
	var out []spec.Summary
	for rows.Next() {
		var id, project, boundary, data, stage string
		var updatedAt int64
		if err := rows.Scan(&id, &project, &boundary, &data, &stage, &updatedAt); err != nil {
			return nil, err
		}
		var sp spec.Spec
		if err := json.Unmarshal([]byte(data), &sp); err != nil {
			return nil, fmt.Errorf("store: unmarshaling spec %q: %w", id, err)
		}
		out = append(out, sp.ToSummary())
	}
	return out, rows.Err()
}
