package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "List and resolve sync conflicts",
}

var conflictsListCmd = &cobra.Command{
	Use:   "list <spec-id>",
	Short: "List every recorded conflict for a spec",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conflicts, err := eng.ConflictsList(cmd.Context(), args[0])
		if err != nil {
			die(exitForErr(err), err)
		}
		if flagJSON {
			printJSON(conflicts)
			return nil
		}
		if len(conflicts) == 0 {
			fmt.Println("No conflicts recorded.")
			return nil
		}
		for _, c := range conflicts {
			fmt.Printf("%s  %-12s  %s\n", c.ID, c.FieldPath, c.Status)
		}
		return nil
	},
}

var (
	conflictsResolveStrategy string
	conflictsResolveManual   string
)

var conflictsResolveCmd = &cobra.Command{
	Use:   "resolve <conflict-id>",
	Short: "Resolve a single conflict under a strategy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if conflictsResolveStrategy == "" {
			die(exitUserError, fmt.Errorf("--strategy is required"))
		}
		if err := eng.ConflictsResolve(cmd.Context(), args[0], conflictsResolveStrategy, conflictsResolveManual); err != nil {
			die(exitForErr(err), err)
		}
		fmt.Printf("Conflict %s resolved.\n", args[0])
		return nil
	},
}

var conflictsBulkStrategy string

var conflictsBulkCmd = &cobra.Command{
	Use:   "bulk <spec-id>",
	Short: "Resolve every unresolved conflict for a spec under one strategy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if conflictsBulkStrategy == "" {
			die(exitUserError, fmt.Errorf("--strategy is required"))
		}
		result, err := eng.ConflictsBulk(cmd.Context(), args[0], conflictsBulkStrategy)
		if err != nil {
			die(exitSysError, err)
		}
		if flagJSON {
			printJSON(result)
			return nil
		}
		fmt.Printf("Resolved %d conflict(s), %d failed.\n", len(result.Resolved), len(result.Failed))
		for id, reason := range result.Failed {
			stderrf("%s: %s\n", id, reason)
		}
		return nil
	},
}

var conflictsAutoMergeCmd = &cobra.Command{
	Use:   "automerge <spec-id>",
	Short: "Attempt to auto-merge every unresolved conflict for a spec",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := eng.ConflictsAutoMerge(cmd.Context(), args[0])
		if err != nil {
			die(exitSysError, err)
		}
		if flagJSON {
			printJSON(result)
			return nil
		}
		fmt.Printf("Merged %d conflict(s), %d declined.\n", len(result.Merged), len(result.Declined))
		for id, reason := range result.Declined {
			stderrf("%s: %s\n", id, reason)
		}
		return nil
	},
}

func init() {
	conflictsResolveCmd.Flags().StringVar(&conflictsResolveStrategy, "strategy", "", "ours, theirs, merge, or manual (required)")
	conflictsResolveCmd.Flags().StringVar(&conflictsResolveManual, "value", "", "manual value, required when --strategy=manual")

	conflictsBulkCmd.Flags().StringVar(&conflictsBulkStrategy, "strategy", "", "ours, theirs, or merge (required)")

	conflictsCmd.AddCommand(conflictsListCmd)
	conflictsCmd.AddCommand(conflictsResolveCmd)
	conflictsCmd.AddCommand(conflictsBulkCmd)
	conflictsCmd.AddCommand(conflictsAutoMergeCmd)
}
