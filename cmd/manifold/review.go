package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manifold-dev/manifold/internal/engine"
	"github.com/manifold-dev/manifold/internal/review"
	"github.com/manifold-dev/manifold/internal/spec"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Request, approve, reject, cancel, and list reviews",
}

var reviewRequestReviewer string

var reviewRequestCmd = &cobra.Command{
	Use:   "request <spec-id>",
	Short: "Open a new pending review on a spec",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		requester := requireActor()
		if reviewRequestReviewer == "" {
			die(exitUserError, fmt.Errorf("--reviewer is required"))
		}
		id, err := eng.ReviewRequest(cmd.Context(), args[0], requester, reviewRequestReviewer)
		if err != nil {
			die(exitForErr(err), err)
		}
		if flagJSON {
			printJSON(map[string]string{"review_id": id})
			return nil
		}
		fmt.Printf("Review %s requested from %s on spec %s.\n", id, reviewRequestReviewer, args[0])
		return nil
	},
}

var reviewApproveComment string

var reviewApproveCmd = &cobra.Command{
	Use:   "approve <review-id>",
	Short: "Approve a pending review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor := requireActor()
		ctx := engine.WithActor(cmd.Context(), actor)
		if err := eng.ReviewApprove(ctx, args[0], reviewApproveComment); err != nil {
			die(exitForErr(err), err)
		}
		fmt.Printf("Review %s approved by %s.\n", args[0], actor)
		return nil
	},
}

var reviewRejectComment string

var reviewRejectCmd = &cobra.Command{
	Use:   "reject <review-id>",
	Short: "Reject a pending review with a required comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor := requireActor()
		if reviewRejectComment == "" {
			die(exitUserError, fmt.Errorf("--comment is required"))
		}
		ctx := engine.WithActor(cmd.Context(), actor)
		if err := eng.ReviewReject(ctx, args[0], reviewRejectComment); err != nil {
			die(exitForErr(err), err)
		}
		fmt.Printf("Review %s rejected by %s.\n", args[0], actor)
		return nil
	},
}

var reviewCancelCmd = &cobra.Command{
	Use:   "cancel <review-id>",
	Short: "Cancel a pending review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor := requireActor()
		ctx := engine.WithActor(cmd.Context(), actor)
		if err := eng.ReviewCancel(ctx, args[0]); err != nil {
			die(exitForErr(err), err)
		}
		fmt.Printf("Review %s cancelled by %s.\n", args[0], actor)
		return nil
	},
}

var (
	reviewListSpecID   string
	reviewListReviewer string
	reviewListStatus   string
)

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reviews, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := review.Filter{
			SpecID:   reviewListSpecID,
			Reviewer: reviewListReviewer,
			Status:   spec.ReviewStatus(reviewListStatus),
		}
		reviews, err := eng.ReviewList(cmd.Context(), f)
		if err != nil {
			die(exitSysError, err)
		}
		if flagJSON {
			printJSON(reviews)
			return nil
		}
		if len(reviews) == 0 {
			fmt.Println("No reviews match that filter.")
			return nil
		}
		for _, r := range reviews {
			fmt.Printf("%s  %s  %s -> %s  [%s]\n", r.ID, r.SpecID, r.Requester, r.Reviewer, r.Status)
		}
		return nil
	},
}

func init() {
	reviewRequestCmd.Flags().StringVar(&reviewRequestReviewer, "reviewer", "", "identity expected to approve or reject (required)")
	reviewApproveCmd.Flags().StringVar(&reviewApproveComment, "comment", "", "optional approval comment")
	reviewRejectCmd.Flags().StringVar(&reviewRejectComment, "comment", "", "reason for rejection (required)")

	reviewListCmd.Flags().StringVar(&reviewListSpecID, "spec-id", "", "filter by spec id")
	reviewListCmd.Flags().StringVar(&reviewListReviewer, "reviewer", "", "filter by reviewer identity")
	reviewListCmd.Flags().StringVar(&reviewListStatus, "status", "", "filter by status: pending, approved, rejected, cancelled")

	reviewCmd.AddCommand(reviewRequestCmd)
	reviewCmd.AddCommand(reviewApproveCmd)
	reviewCmd.AddCommand(reviewRejectCmd)
	reviewCmd.AddCommand(reviewCancelCmd)
	reviewCmd.AddCommand(reviewListCmd)
}
