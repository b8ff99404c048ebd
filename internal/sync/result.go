package sync

import "github.com/manifold-dev/manifold/internal/spec"

// PushResult reports the outcome of pushing one spec's export.
type PushResult struct {
	SpecID     string `json:"spec_id"`
	CommitHash string `json:"commit_hash,omitempty"`
	Error      string `json:"error,omitempty"`
}

// PullResult reports the outcome of pulling one spec's export.
type PullResult struct {
	SpecID     string `json:"spec_id"`
	Conflicted bool   `json:"conflicted"`
	Error      string `json:"error,omitempty"`
}

// Status reports one spec's sync state relative to its last known base.
type Status struct {
	SpecID   string          `json:"spec_id"`
	Status   spec.SyncStatus `json:"sync_status"`
	Modified bool            `json:"modified"`
}
