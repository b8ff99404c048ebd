package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/manifold-dev/manifold/internal/spec"
)

// PutConflicts bulk-inserts freshly detected conflicts inside one
// transaction, so a partial detection run never leaves the table half
// written.
func (s *Store) PutConflicts(ctx context.Context, conflicts []spec.Conflict) error {
	if len(conflicts) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO conflicts (id, spec_id, field_path, local_value, remote_value, base_value, detected_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			local_value = excluded.local_value,
			remote_value = excluded.remote_value,
			base_value = excluded.base_value,
			detected_at = excluded.detected_at,
			status = excluded.status
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range conflicts {
		local, err := encodeAny(c.LocalValue)
		if err != nil {
			return err
		}
		remote, err := encodeAny(c.RemoteValue)
		if err != nil {
			return err
		}
		base, err := encodeAny(c.BaseValue)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.SpecID, c.FieldPath, local, remote, base, c.DetectedAt, string(c.Status)); err != nil {
			return fmt.Errorf("store: writing conflict %q: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// GetConflict fetches a single conflict by id, regardless of which spec
// it belongs to.
func (s *Store) GetConflict(ctx context.Context, id string) (spec.Conflict, error) {
	var c spec.Conflict
	var local, remote, base sql.NullString
	var status string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, spec_id, field_path, local_value, remote_value, base_value, detected_at, status
		FROM conflicts WHERE id = ?
	`, id).Scan(&c.ID, &c.SpecID, &c.FieldPath, &local, &remote, &base, &c.DetectedAt, &status)
	if err != nil {
		return spec.Conflict{}, err
	}
	c.Status = spec.ConflictStatus(status)
	if c.LocalValue, err = decodeAny(local); err != nil {
		return spec.Conflict{}, err
	}
	if c.RemoteValue, err = decodeAny(remote); err != nil {
		return spec.Conflict{}, err
	}
	if c.BaseValue, err = decodeAny(base); err != nil {
		return spec.Conflict{}, err
	}
	return c, nil
}

// ListConflicts returns every conflict recorded for specID, most recently
// detected first.
func (s *Store) ListConflicts(ctx context.Context, specID string) ([]spec.Conflict, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, spec_id, field_path, local_value, remote_value, base_value, detected_at, status
		FROM conflicts WHERE spec_id = ? ORDER BY detected_at DESC
	`, specID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []spec.Conflict
	for rows.Next() {
		var c spec.Conflict
		var local, remote, base sql.NullString
		var status string
		if err := rows.Scan(&c.ID, &c.SpecID, &c.FieldPath, &local, &remote, &base, &c.DetectedAt, &status); err != nil {
			return nil, err
		}
		c.Status = spec.ConflictStatus(status)
		if c.LocalValue, err = decodeAny(local); err != nil {
			return nil, err
		}
		if c.RemoteValue, err = decodeAny(remote); err != nil {
			return nil, err
		}
		if c.BaseValue, err = decodeAny(base); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateConflictStatus records how a conflict was settled.
func (s *Store) UpdateConflictStatus(ctx context.Context, id string, status spec.ConflictStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE conflicts SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("store: conflict %q not found", id)
	}
	return nil
}

func encodeAny(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeAny(s sql.NullString) (any, error) {
	if !s.Valid {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal([]byte(s.String), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// CreateReview inserts a new review request.
func (s *Store) CreateReview(ctx context.Context, r *spec.Review) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (id, spec_id, requester, reviewer, status, comment, requested_at, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.SpecID, r.Requester, r.Reviewer, string(r.Status), r.Comment, r.RequestedAt, nullableInt64(r.ReviewedAt))
	if err != nil {
		return fmt.Errorf("store: creating review %q: %w", r.ID, err)
	}
	return nil
}

// GetReview fetches a review by id.
func (s *Store) GetReview(ctx context.Context, id string) (*spec.Review, error) {
	var r spec.Review
	var status string
	var comment sql.NullString
	var reviewedAt sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, spec_id, requester, reviewer, status, comment, requested_at, reviewed_at
		FROM reviews WHERE id = ?
	`, id).Scan(&r.ID, &r.SpecID, &r.Requester, &r.Reviewer, &status, &comment, &r.RequestedAt, &reviewedAt)
	if err != nil {
		return nil, err
	}
	r.Status = spec.ReviewStatus(status)
	r.Comment = comment.String
	r.ReviewedAt = reviewedAt.Int64
	return &r, nil
}

// UpdateReview persists a review's mutable fields (status/comment/reviewed_at).
func (s *Store) UpdateReview(ctx context.Context, r *spec.Review) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reviews SET status = ?, comment = ?, reviewed_at = ? WHERE id = ?
	`, string(r.Status), r.Comment, nullableInt64(r.ReviewedAt), r.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("store: review %q not found", r.ID)
	}
	return nil
}

// ListReviews returns every review recorded for specID, most recent first.
func (s *Store) ListReviews(ctx context.Context, specID string) ([]spec.Review, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, spec_id, requester, reviewer, status, comment, requested_at, reviewed_at
		FROM reviews WHERE spec_id = ? ORDER BY requested_at DESC
	`, specID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReviews(rows)
}

// ListAllReviews returns every review in the ledger, most recent first —
// used by engine-level views that filter across specs.
func (s *Store) ListAllReviews(ctx context.Context) ([]spec.Review, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, spec_id, requester, reviewer, status, comment, requested_at, reviewed_at
		FROM reviews ORDER BY requested_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReviews(rows)
}

func scanReviews(rows *sql.Rows) ([]spec.Review, error) {
	var out []spec.Review
	for rows.Next() {
		var r spec.Review
		var status string
		var comment sql.NullString
		var reviewedAt sql.NullInt64
		if err := rows.Scan(&r.ID, &r.SpecID, &r.Requester, &r.Reviewer, &status, &comment, &r.RequestedAt, &reviewedAt); err != nil {
			return nil, err
		}
		r.Status = spec.ReviewStatus(status)
		r.Comment = comment.String
		r.ReviewedAt = reviewedAt.Int64
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullableInt64(v int64) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}

// AppendWorkflowEvent journals one stage transition.
func (s *Store) AppendWorkflowEvent(ctx context.Context, e spec.WorkflowEvent) error {
	return appendWorkflowEvent(ctx, s.db, e)
}

func appendWorkflowEvent(ctx context.Context, q execer, e spec.WorkflowEvent) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO workflow_events (spec_id, stage, event, actor, timestamp, details)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.SpecID, string(e.Stage), e.Event, e.Actor, e.Timestamp, e.Details)
	if err != nil {
		return fmt.Errorf("store: appending workflow event for %q: %w", e.SpecID, err)
	}
	return nil
}

// ListWorkflowEvents returns the full event history for specID, oldest first.
func (s *Store) ListWorkflowEvents(ctx context.Context, specID string) ([]spec.WorkflowEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT spec_id, stage, event, actor, timestamp, details
		FROM workflow_events WHERE spec_id = ? ORDER BY timestamp ASC, id ASC
	`, specID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []spec.WorkflowEvent
	for rows.Next() {
		var e spec.WorkflowEvent
		var stage string
		var details sql.NullString
		if err := rows.Scan(&e.SpecID, &stage, &e.Event, &e.Actor, &e.Timestamp, &details); err != nil {
			return nil, err
		}
		e.Stage = spec.Stage(stage)
		e.Details = details.String
		out = append(out, e)
	}
	return out, rows.Err()
}
