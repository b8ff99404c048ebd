// Package engine is the composition root: it wires the store, schema
// validator, workflow engine, sync manager, conflict detector,
// resolution engine, and review ledger into the single Engine surface
// that cmd/manifold and internal/mcpapi both call through.
//
// No business logic lives here beyond sequencing and per-spec
// serialization — each exported method is a thin orchestration over the
// lower packages, wired together once at construction time.
package engine

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/manifold-dev/manifold/internal/conflict"
	"github.com/manifold-dev/manifold/internal/patch"
	"github.com/manifold-dev/manifold/internal/resolve"
	"github.com/manifold-dev/manifold/internal/review"
	"github.com/manifold-dev/manifold/internal/schema"
	"github.com/manifold-dev/manifold/internal/spec"
	"github.com/manifold-dev/manifold/internal/store"
	syncmgr "github.com/manifold-dev/manifold/internal/sync"
	"github.com/manifold-dev/manifold/internal/workflow"
)

// Config configures a fresh Engine.
type Config struct {
	DataDir    string // where the SQLite database lives
	SyncDir    string // where the git-backed export repository lives
	SyncAuthor string
	SyncEmail  string
}

// Engine is the single entry point every transport (CLI, MCP) drives.
type Engine struct {
	store *store.Store
	sync  *syncmgr.Manager

	specLocksMu sync.Mutex
	specLocks   map[string]*sync.Mutex
}

// New builds an Engine, opening its store and sync repository.
func New(cfg Config) (*Engine, error) {
	st, err := store.New(store.Config{DataDir: cfg.DataDir})
	if err != nil {
		if errors.Is(err, store.ErrStoreLocked) {
			return nil, fmt.Errorf("%w: %v", ErrStoreLocked, err)
		}
		return nil, fmt.Errorf("engine: opening store: %w", err)
	}

	sm := syncmgr.New(cfg.SyncDir, cfg.SyncAuthor, cfg.SyncEmail)
	if err := sm.Init(); err != nil {
		st.Close()
		return nil, fmt.Errorf("%w: %v", ErrRemoteFailure, err)
	}

	return &Engine{
		store:     st,
		sync:      sm,
		specLocks: make(map[string]*sync.Mutex),
	}, nil
}

// Close releases the underlying store connection.
func (e *Engine) Close() error {
	return e.store.Close()
}

// lock serializes writes to one spec using a per-id mutex map —
// unrelated specs never block each other.
func (e *Engine) lock(specID string) func() {
	e.specLocksMu.Lock()
	mu, ok := e.specLocks[specID]
	if !ok {
		mu = &sync.Mutex{}
		e.specLocks[specID] = mu
	}
	e.specLocksMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

func now() int64 { return time.Now().Unix() }

// wrapLookupErr distinguishes a missing row from a genuine backing-store
// failure so callers get NotFound only when the entity truly doesn't
// exist, and IoFailure for everything else (a malformed row, a closed
// connection, a disk error).
func wrapLookupErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return fmt.Errorf("%w: %v", ErrIoFailure, err)
}

// CreateSpec creates a new spec at the requirements stage and returns
// its generated id.
func (e *Engine) CreateSpec(ctx context.Context, project, name, description string, boundary spec.Boundary) (string, error) {
	if err := spec.ValidateBoundary(boundary); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	id, err := spec.NewID()
	if err != nil {
		return "", fmt.Errorf("engine: generating spec id: %w", err)
	}

	unlock := e.lock(id)
	defer unlock()

	sp := spec.New(id, project, name, description, boundary, now())
	if err := e.store.CreateSpec(ctx, sp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrIoFailure, err)
	}
	return id, nil
}

// GetSpec fetches a spec by id.
func (e *Engine) GetSpec(ctx context.Context, id string) (*spec.Spec, error) {
	sp, err := e.store.GetSpec(ctx, id)
	if err != nil {
		return nil, wrapLookupErr(err)
	}
	return sp, nil
}

// ListSpecs lists spec summaries matching f.
func (e *Engine) ListSpecs(ctx context.Context, f store.Filter) ([]spec.Summary, error) {
	return e.store.ListSpecs(ctx, f)
}

// PutSpec validates and persists sp, diffing it against its prior stored
// state and recording the resulting RFC 6902 operations as a new
// history.patches entry before bumping updated_at. A hard schema
// violation rejects the write outright — Manifold never persists a
// structurally broken spec.
func (e *Engine) PutSpec(ctx context.Context, sp *spec.Spec, actor string) error {
	if violations := schema.Validate(sp, schema.Normal); len(violations) > 0 {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, violations)
	}

	unlock := e.lock(sp.SpecID)
	defer unlock()

	prior, err := e.store.GetSpec(ctx, sp.SpecID)
	if err != nil {
		return wrapLookupErr(err)
	}

	ops, err := diffContent(prior, sp)
	if err != nil {
		return fmt.Errorf("engine: diffing spec: %w", err)
	}

	sp.History.UpdatedAt = now()
	if len(ops) > 0 {
		sp.History.Patches = append(sp.History.Patches, spec.PatchEntry{
			Timestamp:  sp.History.UpdatedAt,
			Actor:      actor,
			Operations: ops,
		})
	}
	if err := e.store.PutSpec(ctx, sp); err != nil {
		return fmt.Errorf("%w: %v", ErrIoFailure, err)
	}
	return nil
}

// diffContent computes the RFC 6902 operations that turn prior's domain
// content into updated's, excluding history — the patch log records what
// a write changed about the spec, not the bookkeeping of recording it.
func diffContent(prior, updated *spec.Spec) ([]spec.PatchOperation, error) {
	oldCopy := *prior
	newCopy := *updated
	oldCopy.History = spec.History{}
	newCopy.History = spec.History{}

	ops, err := patch.Diff(&oldCopy, &newCopy)
	if err != nil {
		return nil, fmt.Errorf("engine: diffing content: %w", err)
	}
	out := make([]spec.PatchOperation, len(ops))
	for i, op := range ops {
		out[i] = spec.PatchOperation{Op: string(op.Op), Path: op.Path, From: op.From, Value: op.Value}
	}
	return out, nil
}

// ValidateSpec runs the schema validator, adding the two stage-gated
// semantic checks described on schema.Mode when strict is set. Lint's
// completeness warnings are not included in either mode.
func (e *Engine) ValidateSpec(sp *spec.Spec, strict bool) []schema.Violation {
	mode := schema.Normal
	if strict {
		mode = schema.Strict
	}
	return schema.Validate(sp, mode)
}

// WorkflowStatus returns the current stage of a spec.
func (e *Engine) WorkflowStatus(ctx context.Context, id string) (spec.Stage, error) {
	sp, err := e.GetSpec(ctx, id)
	if err != nil {
		return "", err
	}
	return sp.Stage, nil
}

// WorkflowAdvance moves a spec to its next stage, enforcing that stage's
// precondition. A pending review never blocks the move from approval to
// implemented — whether to wait on review is a manual call left to the
// actor, not a rule the core enforces.
func (e *Engine) WorkflowAdvance(ctx context.Context, id, actor string) error {
	unlock := e.lock(id)
	defer unlock()

	sp, err := e.store.GetSpec(ctx, id)
	if err != nil {
		return wrapLookupErr(err)
	}

	event, err := workflow.Advance(sp, actor, now())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPrecondition, err)
	}

	if err := e.store.AdvanceWorkflow(ctx, sp, event); err != nil {
		return fmt.Errorf("%w: %v", ErrIoFailure, err)
	}
	return nil
}

// WorkflowHistory returns the journaled stage transitions for a spec.
func (e *Engine) WorkflowHistory(ctx context.Context, id string) ([]spec.WorkflowEvent, error) {
	return e.store.ListWorkflowEvents(ctx, id)
}

// SyncInit is a no-op beyond construction time: the sync repository is
// initialized when the Engine itself is constructed. It is exposed so
// callers can re-point the repository at a different remote explicitly.
func (e *Engine) SyncInit(ctx context.Context, path, remote string) error {
	if err := e.sync.Init(); err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteFailure, err)
	}
	if remote != "" {
		if err := e.sync.AddRemote("origin", remote); err != nil {
			return fmt.Errorf("%w: %v", ErrRemoteFailure, err)
		}
	}
	return nil
}

// SyncPush exports, commits, and pushes each target spec. A canceled
// context stops before starting any further target; specs already
// pushed keep their recorded result.
func (e *Engine) SyncPush(ctx context.Context, targets []string, message, remote, branch string) ([]syncmgr.PushResult, error) {
	results := make([]syncmgr.PushResult, 0, len(targets))
	for _, id := range targets {
		if ctx.Err() != nil {
			break
		}
		res := syncmgr.PushResult{SpecID: id}
		sp, err := e.store.GetSpec(ctx, id)
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		if _, err := e.sync.ExportSpec(sp); err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		hash, err := e.sync.Commit(message, []string{id})
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		if err := e.sync.Push(remote, branch); err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		res.CommitHash = hash
		baseHash, err := e.sync.FileHash(id)
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		if data, err := json.Marshal(sp); err == nil {
			_ = e.store.PutBlob(ctx, id, baseHash, data)
		}
		if err := e.store.PutSyncMetadata(ctx, &spec.SyncMetadata{
			SpecID:            id,
			LastSyncTimestamp: now(),
			LastSyncHash:      baseHash,
			RemoteBranch:      branch,
			Status:            spec.SyncClean,
		}); err != nil {
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	return results, nil
}

// SyncPull pulls each target spec from the remote, running the Conflict
// Detector against the last known base when the remote version has
// diverged locally. A canceled context stops before starting any
// further target; a pull already underway for one target either
// finishes cleanly or is not attempted — a spec is never left partially
// updated.
func (e *Engine) SyncPull(ctx context.Context, targets []string, remote, branch string) ([]syncmgr.PullResult, error) {
	results := make([]syncmgr.PullResult, 0, len(targets))
	for _, id := range targets {
		if ctx.Err() != nil {
			break
		}
		res := syncmgr.PullResult{SpecID: id}

		local, err := e.store.GetSpec(ctx, id)
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}

		remoteData, err := e.sync.RemoteContent(remote, branch, id)
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		var remoteSpec spec.Spec
		if err := decodeSpec(remoteData, &remoteSpec); err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}

		meta, err := e.store.GetSyncMetadata(ctx, id)
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}

		var base *spec.Spec
		if meta != nil {
			if data, err := e.store.GetBlob(ctx, meta.LastSyncHash); err == nil {
				var b spec.Spec
				if decodeSpec(data, &b) == nil {
					base = &b
				}
			}
		}

		conflicts, err := conflict.Detect(id, base, local, &remoteSpec, now())
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		if len(conflicts) > 0 {
			if err := e.store.PutConflicts(ctx, conflicts); err != nil {
				res.Error = err.Error()
				results = append(results, res)
				continue
			}
			conflicted := spec.SyncMetadata{SpecID: id, RemoteBranch: branch}
			if meta != nil {
				conflicted = *meta
			}
			conflicted.Status = spec.SyncConflicted
			if err := e.store.PutSyncMetadata(ctx, &conflicted); err != nil {
				res.Error = err.Error()
			}
			res.Conflicted = true
			results = append(results, res)
			continue
		}

		unlock := e.lock(id)
		if err := e.store.PutSpec(ctx, &remoteSpec); err != nil {
			unlock()
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		unlock()
		results = append(results, res)
	}
	return results, nil
}

// SyncStatus reports every known spec's sync state.
func (e *Engine) SyncStatus(ctx context.Context) ([]syncmgr.Status, error) {
	ids, err := e.sync.ListSpecs()
	if err != nil {
		return nil, fmt.Errorf("engine: listing synced specs: %w", err)
	}

	out := make([]syncmgr.Status, 0, len(ids))
	for _, id := range ids {
		modified, err := e.sync.IsModified(id)
		if err != nil {
			return nil, fmt.Errorf("engine: checking %q: %w", id, err)
		}
		meta, err := e.store.GetSyncMetadata(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("engine: reading sync metadata for %q: %w", id, err)
		}
		status := spec.SyncModified
		if meta != nil {
			status = meta.Status
		}
		if modified && status == spec.SyncClean {
			status = spec.SyncModified
		}
		out = append(out, syncmgr.Status{SpecID: id, Status: status, Modified: modified})
	}
	return out, nil
}

// ConflictsList returns every recorded conflict for a spec.
func (e *Engine) ConflictsList(ctx context.Context, specID string) ([]spec.Conflict, error) {
	return e.store.ListConflicts(ctx, specID)
}

// ConflictsResolve settles a single conflict by id under a named
// strategy. A manual resolution missing its value fails with
// ErrManualValueRequired — the caller must supply a value. Every other
// inapplicable strategy (merge on a non-mergeable conflict, an unknown
// strategy name) fails with ErrMergeDeclined — the caller should pick a
// different strategy instead.
func (e *Engine) ConflictsResolve(ctx context.Context, id, strategy, manual string) error {
	c, err := e.store.GetConflict(ctx, id)
	if err != nil {
		return wrapLookupErr(err)
	}

	var manualValue any
	if manual != "" {
		manualValue = manual
	}
	value, err := resolve.Resolve(c, spec.ResolutionStrategy(strategy), manualValue)
	if err != nil {
		if spec.ResolutionStrategy(strategy) == spec.ResolveManual {
			return fmt.Errorf("%w: %v", ErrManualValueRequired, err)
		}
		return fmt.Errorf("%w: %v", ErrMergeDeclined, err)
	}

	return e.applyResolution(ctx, c, value, resolvedStatusFor(spec.ResolutionStrategy(strategy)))
}

// ConflictsBulk resolves every unresolved conflict for a spec under one
// uniform strategy, reporting which ones could not be resolved.
func (e *Engine) ConflictsBulk(ctx context.Context, specID, strategy string) (resolve.BulkResult, error) {
	conflicts, err := e.store.ListConflicts(ctx, specID)
	if err != nil {
		return resolve.BulkResult{}, err
	}
	pending := filterUnresolved(conflicts)
	byID := make(map[string]spec.Conflict, len(pending))
	for _, c := range pending {
		byID[c.ID] = c
	}

	result := resolve.BulkResolve(pending, spec.ResolutionStrategy(strategy))
	for id, value := range result.Resolved {
		if err := e.applyResolution(ctx, byID[id], value, resolvedStatusFor(spec.ResolutionStrategy(strategy))); err != nil {
			delete(result.Resolved, id)
			result.Failed[id] = err.Error()
		}
	}
	return result, nil
}

// ConflictsAutoMerge attempts to auto-merge every unresolved conflict for
// a spec, leaving declined conflicts unresolved for manual handling.
func (e *Engine) ConflictsAutoMerge(ctx context.Context, specID string) (resolve.AutoMergeResult, error) {
	conflicts, err := e.store.ListConflicts(ctx, specID)
	if err != nil {
		return resolve.AutoMergeResult{}, err
	}
	pending := filterUnresolved(conflicts)
	byID := make(map[string]spec.Conflict, len(pending))
	for _, c := range pending {
		byID[c.ID] = c
	}

	result := resolve.AutoMergeAll(pending)
	for id, value := range result.Merged {
		if err := e.applyResolution(ctx, byID[id], value, spec.ConflictResolvedMerged); err != nil {
			delete(result.Merged, id)
			result.Declined[id] = err.Error()
		}
	}
	return result, nil
}

func (e *Engine) applyResolution(ctx context.Context, c spec.Conflict, value any, status spec.ConflictStatus) error {
	unlock := e.lock(c.SpecID)
	defer unlock()

	sp, err := e.store.GetSpec(ctx, c.SpecID)
	if err != nil {
		return wrapLookupErr(err)
	}
	if err := applyFieldValue(sp, c.FieldPath, value); err != nil {
		return fmt.Errorf("engine: applying resolved value: %w", err)
	}
	sp.History.UpdatedAt = now()
	if err := e.store.PutSpec(ctx, sp); err != nil {
		return fmt.Errorf("%w: %v", ErrIoFailure, err)
	}
	return e.store.UpdateConflictStatus(ctx, c.ID, status)
}

func resolvedStatusFor(strategy spec.ResolutionStrategy) spec.ConflictStatus {
	switch strategy {
	case spec.ResolveOurs:
		return spec.ConflictResolvedLocal
	case spec.ResolveTheirs:
		return spec.ConflictResolvedRemote
	case spec.ResolveMerge:
		return spec.ConflictResolvedMerged
	default:
		return spec.ConflictResolvedManual
	}
}

func filterUnresolved(conflicts []spec.Conflict) []spec.Conflict {
	var out []spec.Conflict
	for _, c := range conflicts {
		if c.Status == spec.ConflictUnresolved {
			out = append(out, c)
		}
	}
	return out
}

// ReviewRequest opens a new pending review and returns its id.
func (e *Engine) ReviewRequest(ctx context.Context, specID, requester, reviewer string) (string, error) {
	id, err := spec.NewID()
	if err != nil {
		return "", fmt.Errorf("engine: generating review id: %w", err)
	}
	r, err := review.New(id, specID, requester, reviewer, now())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	if err := e.store.CreateReview(ctx, r); err != nil {
		return "", fmt.Errorf("engine: creating review: %w", err)
	}
	return id, nil
}

// ReviewApprove approves a pending review. actor is resolved by the
// caller (CLI/MCP identity) and checked against the review's reviewer.
func (e *Engine) ReviewApprove(ctx context.Context, reviewID, comment string) error {
	return e.withReview(ctx, reviewID, func(r *spec.Review, actor string) error {
		return review.Approve(r, actor, comment, now())
	})
}

// ReviewReject rejects a pending review with a required comment.
func (e *Engine) ReviewReject(ctx context.Context, reviewID, comment string) error {
	return e.withReview(ctx, reviewID, func(r *spec.Review, actor string) error {
		return review.Reject(r, actor, comment, now())
	})
}

// ReviewCancel cancels a pending review.
func (e *Engine) ReviewCancel(ctx context.Context, reviewID string) error {
	return e.withReview(ctx, reviewID, func(r *spec.Review, actor string) error {
		return review.Cancel(r, actor, now())
	})
}

// withReview loads, mutates, and persists a review, translating actor
// and pending-state violations into the engine's error taxonomy. The
// actor identity travels through ctx via WithActor.
func (e *Engine) withReview(ctx context.Context, reviewID string, mutate func(r *spec.Review, actor string) error) error {
	r, err := e.store.GetReview(ctx, reviewID)
	if err != nil {
		return wrapLookupErr(err)
	}
	actor := ActorFromContext(ctx)
	if err := mutate(r, actor); err != nil {
		if errors.Is(err, review.ErrActorMismatch) {
			return fmt.Errorf("%w: %v", ErrPermission, err)
		}
		return fmt.Errorf("%w: %v", ErrPrecondition, err)
	}
	return e.store.UpdateReview(ctx, r)
}

// ReviewList returns reviews matching f.
func (e *Engine) ReviewList(ctx context.Context, f review.Filter) ([]spec.Review, error) {
	all, err := e.store.ListAllReviews(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(all), nil
}
