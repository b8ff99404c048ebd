// Command manifold is the local-first spec engine's command-line
// interface: every subcommand drives the same internal/engine.Engine the
// MCP server binds to.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitSysError)
	}
}
