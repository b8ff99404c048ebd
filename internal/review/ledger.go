package review

import "github.com/manifold-dev/manifold/internal/spec"

// Filter narrows a review listing. Zero-value fields are wildcards.
type Filter struct {
	SpecID   string
	Reviewer string
	Status   spec.ReviewStatus
}

// Apply returns the subset of reviews matching f.
func (f Filter) Apply(reviews []spec.Review) []spec.Review {
	var out []spec.Review
	for _, r := range reviews {
		if f.SpecID != "" && r.SpecID != f.SpecID {
			continue
		}
		if f.Reviewer != "" && r.Reviewer != f.Reviewer {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	return out
}

// HasPending reports whether any review in reviews for specID is still
// pending. The core workflow never uses this to block a transition; it is
// for callers that want to surface pending-review state to a human before
// they choose to advance a spec past approval.
func HasPending(reviews []spec.Review, specID string) bool {
	for _, r := range reviews {
		if r.SpecID == specID && r.Status == spec.ReviewPending {
			return true
		}
	}
	return false
}

// Stats tallies review counts by status.
func Stats(reviews []spec.Review) map[spec.ReviewStatus]int {
	stats := map[spec.ReviewStatus]int{
		spec.ReviewPending:   0,
		spec.ReviewApproved:  0,
		spec.ReviewRejected:  0,
		spec.ReviewCancelled: 0,
	}
	for _, r := range reviews {
		stats[r.Status]++
	}
	return stats
}
