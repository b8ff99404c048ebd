package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	manifoldconfig "github.com/manifold-dev/manifold/internal/config"
	"github.com/manifold-dev/manifold/internal/markdown"
	"github.com/manifold-dev/manifold/internal/spec"
	"github.com/manifold-dev/manifold/internal/store"
)

var specCmd = &cobra.Command{
	Use:   "spec",
	Short: "Create, inspect, and validate specs",
}

var (
	specCreateProject     string
	specCreateName        string
	specCreateDescription string
	specCreateBoundary    string
)

var specCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new spec at the requirements stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		boundary := spec.Boundary(specCreateBoundary)
		if boundary == "" {
			boundary = manifoldconfig.DefaultBoundary(cfg)
		}

		id, err := eng.CreateSpec(cmd.Context(), specCreateProject, specCreateName, specCreateDescription, boundary)
		if err != nil {
			die(exitForErr(err), err)
		}

		if flagJSON {
			printJSON(map[string]string{"spec_id": id})
			return nil
		}
		fmt.Printf("Created spec %s in project %q.\n", id, specCreateProject)
		return nil
	},
}

var specGetFormat string

var specGetCmd = &cobra.Command{
	Use:   "get <spec-id>",
	Short: "Fetch a spec by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sp, err := eng.GetSpec(cmd.Context(), args[0])
		if err != nil {
			die(exitForErr(err), err)
		}

		if specGetFormat == "md" {
			md, err := markdown.Render(sp)
			if err != nil {
				die(exitSysError, fmt.Errorf("render markdown: %w", err))
			}
			fmt.Print(md)
			return nil
		}
		printJSON(sp)
		return nil
	},
}

var (
	specListProject  string
	specListBoundary string
	specListStage    string
)

var specListCmd = &cobra.Command{
	Use:   "list",
	Short: "List spec summaries",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := store.Filter{
			Project:  specListProject,
			Boundary: spec.Boundary(specListBoundary),
			Stage:    spec.Stage(specListStage),
		}
		summaries, err := eng.ListSpecs(cmd.Context(), f)
		if err != nil {
			die(exitSysError, err)
		}

		if flagJSON {
			printJSON(summaries)
			return nil
		}
		if len(summaries) == 0 {
			fmt.Println("No specs match that filter.")
			return nil
		}
		for _, s := range summaries {
			fmt.Printf("%s  %-10s  %-12s  %s\n", s.SpecID, s.Boundary, s.Stage, s.Name)
		}
		return nil
	},
}

var specPutCmd = &cobra.Command{
	Use:   "put <file.json>",
	Short: "Replace a spec's stored document with the JSON in file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			die(exitUserError, fmt.Errorf("read %s: %w", args[0], err))
		}

		var sp spec.Spec
		if err := json.Unmarshal(data, &sp); err != nil {
			die(exitUserError, fmt.Errorf("parse %s: %w", args[0], err))
		}

		if err := eng.PutSpec(cmd.Context(), &sp, requireActor()); err != nil {
			die(exitForErr(err), err)
		}
		fmt.Printf("Wrote spec %s.\n", sp.SpecID)
		return nil
	},
}

var specValidateStrict bool

var specValidateCmd = &cobra.Command{
	Use:   "validate <spec-id>",
	Short: "Validate a spec against the schema, optionally in strict mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sp, err := eng.GetSpec(cmd.Context(), args[0])
		if err != nil {
			die(exitForErr(err), err)
		}

		violations := eng.ValidateSpec(sp, specValidateStrict)
		if flagJSON {
			printJSON(violations)
		} else if len(violations) == 0 {
			fmt.Println("No violations found.")
		} else {
			for _, v := range violations {
				fmt.Printf("%s: %s\n", v.Path, v.Message)
			}
		}
		if len(violations) > 0 {
			os.Exit(exitUserError)
		}
		return nil
	},
}

func init() {
	specCreateCmd.Flags().StringVar(&specCreateProject, "project", "", "project the spec belongs to (required)")
	specCreateCmd.Flags().StringVar(&specCreateName, "name", "", "human-readable spec name (required)")
	specCreateCmd.Flags().StringVar(&specCreateDescription, "description", "", "display description for the spec")
	specCreateCmd.Flags().StringVar(&specCreateBoundary, "boundary", "", "sharing boundary: personal, work, or company (default: configured default)")
	specCreateCmd.MarkFlagRequired("project")
	specCreateCmd.MarkFlagRequired("name")

	specGetCmd.Flags().StringVar(&specGetFormat, "format", "json", "output format: json or md")

	specListCmd.Flags().StringVar(&specListProject, "project", "", "filter by project")
	specListCmd.Flags().StringVar(&specListBoundary, "boundary", "", "filter by boundary")
	specListCmd.Flags().StringVar(&specListStage, "stage", "", "filter by stage")

	specValidateCmd.Flags().BoolVar(&specValidateStrict, "strict", false, "also require SHALL statements from design on and linked tasks from tasks on")

	specCmd.AddCommand(specCreateCmd)
	specCmd.AddCommand(specGetCmd)
	specCmd.AddCommand(specListCmd)
	specCmd.AddCommand(specPutCmd)
	specCmd.AddCommand(specValidateCmd)
}
