package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	manifoldconfig "github.com/manifold-dev/manifold/internal/config"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Export, push, pull, and inspect sync state against a remote",
}

var syncInitRemote string

var syncInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the sync repository, optionally pointing it at a remote",
	RunE: func(cmd *cobra.Command, args []string) error {
		remote := syncInitRemote
		if remote == "" {
			remote = cfg.GetString(manifoldconfig.KeySyncRemote)
		}
		if err := eng.SyncInit(cmd.Context(), flagSyncDir, remote); err != nil {
			die(exitSysError, err)
		}
		fmt.Println("Sync repository initialized.")
		return nil
	},
}

var (
	syncPushSpecs   string
	syncPushMessage string
	syncPushRemote  string
	syncPushBranch  string
)

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Export, commit, and push the given specs",
	RunE: func(cmd *cobra.Command, args []string) error {
		targets := splitCSV(syncPushSpecs)
		if len(targets) == 0 {
			die(exitUserError, fmt.Errorf("--specs is required"))
		}
		remote := resolveSyncRemote(syncPushRemote)
		branch := resolveSyncBranch(syncPushBranch)

		results, err := eng.SyncPush(cmd.Context(), targets, syncPushMessage, remote, branch)
		if err != nil {
			die(exitSysError, err)
		}
		if flagJSON {
			printJSON(results)
			return nil
		}
		failed := false
		for _, r := range results {
			if r.Error != "" {
				stderrf("%s: %s\n", r.SpecID, r.Error)
				failed = true
				continue
			}
			fmt.Printf("%s pushed at %s\n", r.SpecID, r.CommitHash)
		}
		if failed {
			os.Exit(exitUserError)
		}
		return nil
	},
}

var (
	syncPullSpecs  string
	syncPullRemote string
	syncPullBranch string
)

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull the given specs from the remote, detecting conflicts",
	RunE: func(cmd *cobra.Command, args []string) error {
		targets := splitCSV(syncPullSpecs)
		if len(targets) == 0 {
			die(exitUserError, fmt.Errorf("--specs is required"))
		}
		remote := resolveSyncRemote(syncPullRemote)
		branch := resolveSyncBranch(syncPullBranch)

		results, err := eng.SyncPull(cmd.Context(), targets, remote, branch)
		if err != nil {
			die(exitSysError, err)
		}
		if flagJSON {
			printJSON(results)
			return nil
		}
		failed := false
		for _, r := range results {
			switch {
			case r.Error != "":
				stderrf("%s: %s\n", r.SpecID, r.Error)
				failed = true
			case r.Conflicted:
				fmt.Printf("%s pulled with conflicts — run 'manifold conflicts list %s'\n", r.SpecID, r.SpecID)
			default:
				fmt.Printf("%s pulled cleanly\n", r.SpecID)
			}
		}
		if failed {
			os.Exit(exitUserError)
		}
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show every known spec's sync state",
	RunE: func(cmd *cobra.Command, args []string) error {
		statuses, err := eng.SyncStatus(cmd.Context())
		if err != nil {
			die(exitSysError, err)
		}
		if flagJSON {
			printJSON(statuses)
			return nil
		}
		if len(statuses) == 0 {
			fmt.Println("No synced specs.")
			return nil
		}
		for _, s := range statuses {
			fmt.Printf("%s  %-10s  modified=%t\n", s.SpecID, s.Status, s.Modified)
		}
		return nil
	},
}

func resolveSyncRemote(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.GetString(manifoldconfig.KeySyncRemote)
}

func resolveSyncBranch(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.GetString(manifoldconfig.KeySyncBranch)
}

func init() {
	syncInitCmd.Flags().StringVar(&syncInitRemote, "remote", "", "remote URL to configure as origin")

	syncPushCmd.Flags().StringVar(&syncPushSpecs, "specs", "", "comma-separated spec ids to push (required)")
	syncPushCmd.Flags().StringVar(&syncPushMessage, "message", "sync", "commit message")
	syncPushCmd.Flags().StringVar(&syncPushRemote, "remote", "", "remote name (default: configured sync.remote)")
	syncPushCmd.Flags().StringVar(&syncPushBranch, "branch", "", "branch name (default: configured sync.branch)")

	syncPullCmd.Flags().StringVar(&syncPullSpecs, "specs", "", "comma-separated spec ids to pull (required)")
	syncPullCmd.Flags().StringVar(&syncPullRemote, "remote", "", "remote name (default: configured sync.remote)")
	syncPullCmd.Flags().StringVar(&syncPullBranch, "branch", "", "branch name (default: configured sync.branch)")

	syncCmd.AddCommand(syncInitCmd)
	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncStatusCmd)
}
