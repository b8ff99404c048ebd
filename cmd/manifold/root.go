package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	manifoldconfig "github.com/manifold-dev/manifold/internal/config"
	"github.com/manifold-dev/manifold/internal/engine"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values, set by rootCmd's persistent flags.
var (
	flagDataDir string
	flagSyncDir string
	flagJSON    bool
	flagActor   string
)

// eng is the Engine every subcommand drives, built in PersistentPreRunE
// and released in PersistentPostRunE.
var eng *engine.Engine

// cfg is the loaded user configuration, available to subcommands that
// need a default (boundary, sync remote) not overridden by a flag.
var cfg *viper.Viper

var rootCmd = &cobra.Command{
	Use:   "manifold",
	Short: "Manifold is a local-first specification engine",
	Long: `Manifold tracks software specs through requirements, design, tasks,
approval, and implementation, stores them in a local database, and
exchanges them with collaborators through a git-backed sync repository.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		paths, err := manifoldconfig.Resolve(flagDataDir, flagSyncDir)
		if err != nil {
			return fmt.Errorf("resolve paths: %w", err)
		}
		if err := paths.EnsureDirs(); err != nil {
			return fmt.Errorf("create directories: %w", err)
		}

		cfg, err = manifoldconfig.Load(paths)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		author := cfg.GetString(manifoldconfig.KeySyncAuthor)
		email := cfg.GetString(manifoldconfig.KeySyncEmail)

		eng, err = engine.New(engine.Config{
			DataDir:    paths.DataDir,
			SyncDir:    paths.SyncDir,
			SyncAuthor: author,
			SyncEmail:  email,
		})
		if err != nil {
			return fmt.Errorf("start engine: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if eng == nil {
			return nil
		}
		return eng.Close()
	},
}

// manifoldVersion is set at build time via ldflags; it defaults to "dev"
// for local builds.
var manifoldVersion = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the manifold version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("manifold v%s\n", manifoldVersion)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $MANIFOLD_HOME/db)")
	rootCmd.PersistentFlags().StringVar(&flagSyncDir, "sync-dir", "", "sync repository directory (default: $MANIFOLD_HOME/sync)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagActor, "actor", "", "identity to journal against state-changing operations")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(specCmd)
	rootCmd.AddCommand(workflowCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(conflictsCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(serveCmd)
}

// die prints err to stderr and exits with code.
func die(code int, err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(code)
}

// exitForErr maps an engine error to a process exit code: not-found,
// invalid, precondition, permission, and conflict-resolution errors are
// the caller's fault and fixable by changing the request; store-locked,
// remote, io, and cancellation failures are system-level and fatal to
// the caller.
func exitForErr(err error) int {
	switch engine.Kind(err) {
	case engine.KindNotFound, engine.KindInvalid, engine.KindPrecondition, engine.KindPermission,
		engine.KindMergeDeclined, engine.KindManualValueRequired:
		return exitUserError
	default:
		return exitSysError
	}
}

// requireActor returns the actor flag's value, exiting with exitUserError
// if it was left unset — spec put, workflow advance, and the review
// subcommands that change state require one.
func requireActor() string {
	if flagActor == "" {
		die(exitUserError, fmt.Errorf("--actor is required"))
	}
	return flagActor
}
