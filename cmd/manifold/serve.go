package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/manifold-dev/manifold/internal/mcpapi"
)

// serveCmd starts an MCP server exposing every spec, workflow, sync,
// conflicts, and review operation as a tool over stdio, so editor and
// agent integrations drive the same Engine the CLI does.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio transport)",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := server.NewMCPServer(
			"manifold",
			manifoldVersion,
			server.WithToolCapabilities(true),
			server.WithRecovery(),
			server.WithInstructions(
				"Manifold tracks specs through requirements, design, tasks, "+
					"approval, and implementation, and syncs them across a git-backed "+
					"collaboration repository. Spec writes, workflow advances, and review "+
					"decisions take an explicit actor argument, journaled in the patch log, "+
					"workflow history, and review ledger.",
			),
		)
		mcpapi.Register(s, eng)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() { <-sigCh }()

		return server.ServeStdio(s)
	},
}
