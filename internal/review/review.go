// Package review implements the review ledger: requesting, approving,
// rejecting, and cancelling a review of a spec's current state.
//
// A Review is structurally an ADR-like record collapsed to
// requester/reviewer/comment/status, reusing a status-string-set
// validation style for spec.ReviewStatus. Approve and reject must come
// from the named reviewer; cancel must come from the named requester.
package review

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifold-dev/manifold/internal/spec"
)

// ErrActorMismatch is returned when the calling actor does not match the
// identity a state-changing operation requires.
var ErrActorMismatch = errors.New("review: actor does not match")

// ErrNotPending is returned when an operation that requires a pending
// review is attempted on one that has already been settled.
var ErrNotPending = errors.New("review: not pending")

// New builds a pending Review request.
func New(id, specID, requester, reviewer string, now int64) (*spec.Review, error) {
	if strings.TrimSpace(requester) == "" {
		return nil, fmt.Errorf("review: requester is required")
	}
	if strings.TrimSpace(reviewer) == "" {
		return nil, fmt.Errorf("review: reviewer is required")
	}
	return &spec.Review{
		ID:          id,
		SpecID:      specID,
		Requester:   requester,
		Reviewer:    reviewer,
		Status:      spec.ReviewPending,
		RequestedAt: now,
	}, nil
}

// Approve marks r approved. actor must equal r.Reviewer.
func Approve(r *spec.Review, actor, comment string, now int64) error {
	if r.Status != spec.ReviewPending {
		return fmt.Errorf("%w: review %q has status %s", ErrNotPending, r.ID, r.Status)
	}
	if actor != r.Reviewer {
		return fmt.Errorf("%w: %q is not reviewer %q for review %q", ErrActorMismatch, actor, r.Reviewer, r.ID)
	}
	r.Status = spec.ReviewApproved
	r.Comment = comment
	r.ReviewedAt = now
	return nil
}

// Reject marks r rejected. actor must equal r.Reviewer, and a comment is
// required — rejection without a stated reason is not accepted.
func Reject(r *spec.Review, actor, comment string, now int64) error {
	if r.Status != spec.ReviewPending {
		return fmt.Errorf("%w: review %q has status %s", ErrNotPending, r.ID, r.Status)
	}
	if actor != r.Reviewer {
		return fmt.Errorf("%w: %q is not reviewer %q for review %q", ErrActorMismatch, actor, r.Reviewer, r.ID)
	}
	if strings.TrimSpace(comment) == "" {
		return fmt.Errorf("review: rejecting review %q requires a comment", r.ID)
	}
	r.Status = spec.ReviewRejected
	r.Comment = comment
	r.ReviewedAt = now
	return nil
}

// Cancel marks r cancelled. actor must equal r.Requester.
func Cancel(r *spec.Review, actor string, now int64) error {
	if r.Status != spec.ReviewPending {
		return fmt.Errorf("%w: review %q has status %s", ErrNotPending, r.ID, r.Status)
	}
	if actor != r.Requester {
		return fmt.Errorf("%w: %q is not requester %q for review %q", ErrActorMismatch, actor, r.Requester, r.ID)
	}
	r.Status = spec.ReviewCancelled
	r.ReviewedAt = now
	return nil
}

// Format renders a short human-readable summary of a review, mirroring
// ADRTool's response-text construction.
func Format(r spec.Review) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Review %s: %s -> %s (%s)\n", r.ID, r.Requester, r.Reviewer, r.Status)
	if r.Comment != "" {
		fmt.Fprintf(&b, "Comment: %s\n", r.Comment)
	}
	return b.String()
}
