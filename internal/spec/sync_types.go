package spec

// SyncStatus summarizes how a spec's working copy relates to its last
// known sync point.
type SyncStatus string

const (
	SyncClean      SyncStatus = "clean"
	SyncModified   SyncStatus = "modified"
	SyncConflicted SyncStatus = "conflicted"
)

// SyncMetadata is the per-spec bookkeeping the Sync Manager maintains
// alongside the spec document itself.
type SyncMetadata struct {
	SpecID            string     `json:"spec_id"`
	LastSyncTimestamp int64      `json:"last_sync_timestamp"`
	LastSyncHash      string     `json:"last_sync_hash"`
	RemoteBranch      string     `json:"remote_branch,omitempty"`
	Status            SyncStatus `json:"sync_status"`
}

// ConflictStatus tracks how a detected Conflict has been handled.
type ConflictStatus string

const (
	ConflictUnresolved     ConflictStatus = "unresolved"
	ConflictResolvedLocal  ConflictStatus = "resolved_local"
	ConflictResolvedRemote ConflictStatus = "resolved_remote"
	ConflictResolvedMerged ConflictStatus = "resolved_merged"
	ConflictResolvedManual ConflictStatus = "resolved_manual"
)

// Conflict is one field-level disagreement between local and remote found
// during a three-way comparison against the last synced base.
type Conflict struct {
	ID          string         `json:"id"`
	SpecID      string         `json:"spec_id"`
	FieldPath   string         `json:"field_path"`
	LocalValue  any            `json:"local_value"`
	RemoteValue any            `json:"remote_value"`
	BaseValue   any            `json:"base_value,omitempty"`
	DetectedAt  int64          `json:"detected_at"`
	Status      ConflictStatus `json:"status"`
}

// ResolutionStrategy picks how a Conflict is settled.
type ResolutionStrategy string

const (
	ResolveOurs   ResolutionStrategy = "ours"
	ResolveTheirs ResolutionStrategy = "theirs"
	ResolveMerge  ResolutionStrategy = "merge"
	ResolveManual ResolutionStrategy = "manual"
)

// ReviewStatus tracks the lifecycle of a Review request.
type ReviewStatus string

const (
	ReviewPending   ReviewStatus = "pending"
	ReviewApproved  ReviewStatus = "approved"
	ReviewRejected  ReviewStatus = "rejected"
	ReviewCancelled ReviewStatus = "cancelled"
)

// Review is one request for a reviewer to approve or reject a spec's
// current state, recorded in the review ledger.
type Review struct {
	ID          string       `json:"id"`
	SpecID      string       `json:"spec_id"`
	Requester   string       `json:"requester"`
	Reviewer    string       `json:"reviewer"`
	Status      ReviewStatus `json:"status"`
	Comment     string       `json:"comment,omitempty"`
	RequestedAt int64        `json:"requested_at"`
	ReviewedAt  int64        `json:"reviewed_at,omitempty"`
}

// WorkflowEvent is one journaled stage transition for a spec.
type WorkflowEvent struct {
	SpecID    string `json:"spec_id"`
	Stage     Stage  `json:"stage"`
	Event     string `json:"event"`
	Actor     string `json:"actor"`
	Timestamp int64  `json:"timestamp"`
	Details   string `json:"details,omitempty"`
}
