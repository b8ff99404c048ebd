package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// printJSON marshals v as indented JSON to stdout, exiting with a system
// error if marshaling fails — a failure here means a bug, not bad input.
func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		die(exitSysError, fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Println(string(out))
}

// splitCSV splits a comma-separated flag value into its trimmed parts,
// dropping empty entries.
func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func stderrf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
