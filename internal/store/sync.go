package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/manifold-dev/manifold/internal/spec"
)

// GetSyncMetadata fetches the sync bookkeeping row for specID, returning
// (nil, nil) if the spec has never been synced.
func (s *Store) GetSyncMetadata(ctx context.Context, specID string) (*spec.SyncMetadata, error) {
	var m spec.SyncMetadata
	var remote sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT spec_id, last_sync_timestamp, last_sync_hash, remote_branch, sync_status
		FROM sync_metadata WHERE spec_id = ?
	`, specID).Scan(&m.SpecID, &m.LastSyncTimestamp, &m.LastSyncHash, &remote, &m.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.RemoteBranch = remote.String
	return &m, nil
}

// PutSyncMetadata upserts the sync bookkeeping row for a spec.
func (s *Store) PutSyncMetadata(ctx context.Context, m *spec.SyncMetadata) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_metadata (spec_id, last_sync_timestamp, last_sync_hash, remote_branch, sync_status)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(spec_id) DO UPDATE SET
			last_sync_timestamp = excluded.last_sync_timestamp,
			last_sync_hash      = excluded.last_sync_hash,
			remote_branch       = excluded.remote_branch,
			sync_status         = excluded.sync_status
	`, m.SpecID, m.LastSyncTimestamp, m.LastSyncHash, m.RemoteBranch, string(m.Status))
	if err != nil {
		return fmt.Errorf("store: upserting sync metadata for %q: %w", m.SpecID, err)
	}
	return nil
}

// PutBlob stores the JSON-encoded content of a spec at a given hash — the
// three-way base snapshot the Conflict Detector compares local/remote
// against. Blobs are content-addressed and idempotent to re-write.
func (s *Store) PutBlob(ctx context.Context, specID, hash string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blobs (hash, spec_id, data) VALUES (?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, hash, specID, string(data))
	if err != nil {
		return fmt.Errorf("store: writing blob %q: %w", hash, err)
	}
	return nil
}

// GetBlob fetches the raw bytes stored under hash.
func (s *Store) GetBlob(ctx context.Context, hash string) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM blobs WHERE hash = ?`, hash).Scan(&data)
	if err != nil {
		return nil, err
	}
	return []byte(data), nil
}
