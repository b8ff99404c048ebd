package review

import (
	"errors"
	"testing"

	"github.com/manifold-dev/manifold/internal/spec"
)

func TestApproveRequiresReviewerActor(t *testing.T) {
	r, err := New("rev-1", "amber-ridge-owl", "alice", "bob", 1000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := Approve(r, "alice", "looks good", 2000); !errors.Is(err, ErrActorMismatch) {
		t.Fatalf("expected actor mismatch, got %v", err)
	}
	if err := Approve(r, "bob", "looks good", 2000); err != nil {
		t.Fatalf("expected approve to succeed, got %v", err)
	}
	if r.Status != spec.ReviewApproved {
		t.Fatalf("expected approved status, got %s", r.Status)
	}
}

func TestRejectRequiresCommentAndReviewerActor(t *testing.T) {
	r, _ := New("rev-1", "amber-ridge-owl", "alice", "bob", 1000)
	if err := Reject(r, "bob", "", 2000); err == nil {
		t.Fatal("expected error: reject requires a comment")
	}
	if err := Reject(r, "alice", "no good", 2000); !errors.Is(err, ErrActorMismatch) {
		t.Fatalf("expected actor mismatch, got %v", err)
	}
	if err := Reject(r, "bob", "no good", 2000); err != nil {
		t.Fatalf("expected reject to succeed, got %v", err)
	}
	if r.Status != spec.ReviewRejected {
		t.Fatalf("expected rejected status, got %s", r.Status)
	}
}

func TestCancelRequiresRequesterActor(t *testing.T) {
	r, _ := New("rev-1", "amber-ridge-owl", "alice", "bob", 1000)
	if err := Cancel(r, "bob", 2000); !errors.Is(err, ErrActorMismatch) {
		t.Fatalf("expected actor mismatch, got %v", err)
	}
	if err := Cancel(r, "alice", 2000); err != nil {
		t.Fatalf("expected cancel to succeed, got %v", err)
	}
	if r.Status != spec.ReviewCancelled {
		t.Fatalf("expected cancelled status, got %s", r.Status)
	}
}

func TestCannotActOnSettledReview(t *testing.T) {
	r, _ := New("rev-1", "amber-ridge-owl", "alice", "bob", 1000)
	if err := Approve(r, "bob", "ok", 2000); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := Approve(r, "bob", "ok", 3000); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected not-pending error, got %v", err)
	}
}

func TestFilterAndStats(t *testing.T) {
	reviews := []spec.Review{
		{ID: "1", SpecID: "s1", Reviewer: "bob", Status: spec.ReviewPending},
		{ID: "2", SpecID: "s1", Reviewer: "carol", Status: spec.ReviewApproved},
		{ID: "3", SpecID: "s2", Reviewer: "bob", Status: spec.ReviewRejected},
	}
	got := Filter{SpecID: "s1"}.Apply(reviews)
	if len(got) != 2 {
		t.Fatalf("expected 2 reviews for s1, got %d", len(got))
	}
	if !HasPending(reviews, "s1") {
		t.Fatal("expected s1 to have a pending review")
	}
	if HasPending(reviews, "s2") {
		t.Fatal("expected s2 to have no pending review")
	}
	stats := Stats(reviews)
	if stats[spec.ReviewPending] != 1 || stats[spec.ReviewApproved] != 1 || stats[spec.ReviewRejected] != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
