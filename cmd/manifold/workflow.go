package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Inspect and advance a spec's workflow stage",
}

var workflowStatusCmd = &cobra.Command{
	Use:   "status <spec-id>",
	Short: "Show a spec's current stage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, err := eng.WorkflowStatus(cmd.Context(), args[0])
		if err != nil {
			die(exitForErr(err), err)
		}
		if flagJSON {
			printJSON(map[string]string{"spec_id": args[0], "stage": string(stage)})
			return nil
		}
		fmt.Println(stage)
		return nil
	},
}

var workflowAdvanceCmd = &cobra.Command{
	Use:   "advance <spec-id>",
	Short: "Move a spec to its next workflow stage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor := requireActor()
		if err := eng.WorkflowAdvance(cmd.Context(), args[0], actor); err != nil {
			die(exitForErr(err), err)
		}
		stage, err := eng.WorkflowStatus(cmd.Context(), args[0])
		if err != nil {
			die(exitForErr(err), err)
		}
		fmt.Printf("Spec %s advanced to stage %s.\n", args[0], stage)
		return nil
	},
}

var workflowHistoryCmd = &cobra.Command{
	Use:   "history <spec-id>",
	Short: "List journaled stage transitions for a spec",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := eng.WorkflowHistory(cmd.Context(), args[0])
		if err != nil {
			die(exitForErr(err), err)
		}
		if flagJSON {
			printJSON(events)
			return nil
		}
		if len(events) == 0 {
			fmt.Println("No workflow history recorded.")
			return nil
		}
		for _, e := range events {
			fmt.Printf("%d  %s  stage=%s  by %s\n", e.Timestamp, e.Event, e.Stage, e.Actor)
		}
		return nil
	},
}

func init() {
	workflowCmd.AddCommand(workflowStatusCmd)
	workflowCmd.AddCommand(workflowAdvanceCmd)
	workflowCmd.AddCommand(workflowHistoryCmd)
}
